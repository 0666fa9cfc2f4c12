package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial"
	"github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/dto"
)

type RawMaterialHandler struct {
	uc     rawmaterial.UseCase
	logger logger.ZapLogger
}

func NewRawMaterialHandler(uc rawmaterial.UseCase, log logger.ZapLogger) *RawMaterialHandler {
	return &RawMaterialHandler{
		uc:     uc,
		logger: log,
	}
}

type materialRequest struct {
	MaterialName   string          `json:"material_name" validate:"required,max=255"`
	LocalOrForeign string          `json:"localOrForeign" validate:"omitempty,oneof=local foreign"`
	ImportDate     string          `json:"import_date"`
	Quantity       decimal.Decimal `json:"quantity"`
	Importer       *string         `json:"importer" validate:"omitempty,max=255"`
	Unit           string          `json:"unit" validate:"max=32"`
}

func (req *materialRequest) input() (*dto.RawMaterialInput, error) {
	in := &dto.RawMaterialInput{
		MaterialName: req.MaterialName,
		Source:       req.LocalOrForeign,
		Quantity:     req.Quantity,
		Importer:     req.Importer,
		Unit:         req.Unit,
	}
	if req.ImportDate != "" {
		t, err := httpx.ParseDate(req.ImportDate)
		if err != nil {
			return nil, apperror.Validation("Invalid import_date")
		}
		in.ImportDate = &t
	}
	return in, nil
}

type usageRequest struct {
	RawMaterialID int64           `json:"raw_material_id"`
	UsedQuantity  decimal.Decimal `json:"used_quantity"`
	UsageDate     string          `json:"usage_date"`
	Purpose       *string         `json:"purpose"`
}

func (req *usageRequest) input() (*dto.UsageInput, error) {
	if req.RawMaterialID <= 0 || req.UsedQuantity.IsZero() || req.UsageDate == "" {
		return nil, apperror.Validation("Missing required fields")
	}
	t, err := httpx.ParseDate(req.UsageDate)
	if err != nil {
		return nil, apperror.Validation("Invalid usage_date")
	}
	return &dto.UsageInput{
		RawMaterialID: req.RawMaterialID,
		UsedQuantity:  req.UsedQuantity,
		UsageDate:     t,
		Purpose:       req.Purpose,
	}, nil
}

type createdResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// GET /raw-materials
func (h *RawMaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	materials, err := h.uc.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out := make([]dto.RawMaterialResponse, len(materials))
	for i, m := range materials {
		out[i] = dto.NewRawMaterialResponse(m)
	}
	httpx.OK(w, r, out)
}

// GET /raw-materials/{id}
func (h *RawMaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	m, err := h.uc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, dto.NewRawMaterialResponse(*m))
}

// POST /raw-materials
func (h *RawMaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	m, err := h.uc.Create(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, createdResponse{Message: "Raw material created successfully", Data: dto.NewRawMaterialResponse(*m)})
}

// PUT /raw-materials/{id}
func (h *RawMaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req materialRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if _, err := h.uc.Update(r.Context(), id, input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Raw material updated successfully")
}

// DELETE /raw-materials/{id}
func (h *RawMaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Raw material deleted successfully")
}

// GET /raw-materials/{id}/movements
func (h *RawMaterialHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	movements, err := h.uc.ListMovements(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, movements)
}

// GET /raw-material-usage
func (h *RawMaterialHandler) ListUsages(w http.ResponseWriter, r *http.Request) {
	usages, err := h.uc.ListUsages(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, usages)
}

// POST /raw-material-usage
func (h *RawMaterialHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	var req usageRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.uc.RecordUsage(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, createdResponse{Message: "Raw material usage recorded successfully", Data: u})
}

// PUT /raw-material-usage/{id}
func (h *RawMaterialHandler) EditUsage(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req usageRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if _, err := h.uc.EditUsage(r.Context(), id, input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Usage record updated successfully")
}

// DELETE /raw-material-usage/{id}
func (h *RawMaterialHandler) DeleteUsage(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteUsage(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Usage record deleted and quantity restored")
}

// GET /raw-material-usage/usage-details/{rawMaterialId}
func (h *RawMaterialHandler) UsageDetails(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "rawMaterialId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	details, err := h.uc.ListUsageDetails(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, details)
}

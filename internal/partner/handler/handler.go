package handler

import (
	"net/http"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner/dto"
)

type PartnerHandler struct {
	uc     partner.UseCase
	logger logger.ZapLogger
}

func NewPartnerHandler(uc partner.UseCase, log logger.ZapLogger) *PartnerHandler {
	return &PartnerHandler{
		uc:     uc,
		logger: log,
	}
}

type createdResponse struct {
	Message string      `json:"message"`
	ID      int64       `json:"id"`
	Data    interface{} `json:"data"`
}

type updatedResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type supplierRequest struct {
	dto.SupplierInput
	JoinDate string `json:"join_date"`
}

func (req *supplierRequest) input() (*dto.SupplierInput, error) {
	in := req.SupplierInput
	if req.JoinDate != "" {
		t, err := httpx.ParseDate(req.JoinDate)
		if err != nil {
			return nil, apperror.Validation("Invalid join_date")
		}
		in.JoinDate = &t
	}
	return &in, nil
}

// GET /customers
func (h *PartnerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.uc.ListCustomers(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, customers)
}

// GET /customers/{id}
func (h *PartnerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.uc.GetCustomer(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, c)
}

// POST /customers
func (h *PartnerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input dto.CustomerInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.uc.CreateCustomer(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, createdResponse{Message: "Customer created successfully", ID: c.ID, Data: c})
}

// PUT /customers/{id}
func (h *PartnerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.CustomerInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.uc.UpdateCustomer(r.Context(), id, &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, updatedResponse{Message: "Customer updated successfully", Data: c})
}

// DELETE /customers/{id}
func (h *PartnerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteCustomer(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Customer deleted successfully")
}

// GET /suppliers
func (h *PartnerHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.uc.ListSuppliers(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, suppliers)
}

// GET /suppliers/{id}
func (h *PartnerHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.uc.GetSupplier(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, s)
}

// POST /suppliers
func (h *PartnerHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.uc.CreateSupplier(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, createdResponse{Message: "Supplier created successfully", ID: s.ID, Data: s})
}

// PUT /suppliers/{id}
func (h *PartnerHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req supplierRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.uc.UpdateSupplier(r.Context(), id, input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, updatedResponse{Message: "Supplier updated successfully", Data: s})
}

// DELETE /suppliers/{id}
func (h *PartnerHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteSupplier(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Supplier deleted successfully")
}

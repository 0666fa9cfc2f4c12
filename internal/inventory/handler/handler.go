package handler

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

type addStockRequest struct {
	Stock       int    `json:"stock" validate:"gt=0"`
	WarehouseID *int64 `json:"warehouse_id" validate:"omitempty,gt=0"`
	Note        string `json:"note" validate:"max=500"`
}

type editStockLogRequest struct {
	Stock int `json:"stock" validate:"gt=0"`
}

type reorderLevelRequest struct {
	ReorderLevel *int   `json:"reorder_level" validate:"required,gte=0"`
	WarehouseID  *int64 `json:"warehouse_id" validate:"omitempty,gt=0"`
}

type addStockResponse struct {
	Message string              `json:"message"`
	Data    *dto.AddStockResult `json:"data"`
}

type stockLogResponse struct {
	Message string          `json:"message"`
	Data    *model.StockLog `json:"data"`
}

type pagedResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// POST /products/{id}/stock
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, apperror.Validation("Invalid product ID or stock value"))
		return
	}
	var req addStockRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	res, err := h.uc.AddStock(r.Context(), &dto.AddStockInput{
		ProductID:   productID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Stock,
		Note:        req.Note,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, addStockResponse{Message: "Stock added and logged successfully!", Data: res})
}

// PUT /stock-log/{logId}
func (h *InventoryHandler) EditStockLog(w http.ResponseWriter, r *http.Request) {
	logID, err := httpx.PathID(r, "logId")
	if err != nil {
		httpx.Error(w, r, apperror.Validation("Invalid log ID or stock value"))
		return
	}
	var req editStockLogRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	log, err := h.uc.EditStockLog(r.Context(), logID, req.Stock)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, stockLogResponse{Message: "Stock log updated successfully!", Data: log})
}

// DELETE /stock-log/{logId}
func (h *InventoryHandler) DeleteStockLog(w http.ResponseWriter, r *http.Request) {
	logID, err := httpx.PathID(r, "logId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteStockLog(r.Context(), logID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Stock log deleted and inventory updated successfully!")
}

// GET /inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.uc.ListInventory(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, rows)
}

// GET /stock-details/{productId}
func (h *InventoryHandler) StockDetails(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.PathID(r, "productId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	details, err := h.uc.StockDetails(r.Context(), productID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, details)
}

// GET /products/{id}/inventory
func (h *InventoryHandler) GetProductInventory(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	warehouseID, err := httpx.QueryID(r, "warehouse_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.uc.GetProductInventory(r.Context(), productID, warehouseID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, inv)
}

// PUT /products/{id}/reorder-level
func (h *InventoryHandler) SetReorderLevel(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req reorderLevelRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.uc.SetReorderLevel(r.Context(), &dto.ReorderLevelInput{
		ProductID:    productID,
		WarehouseID:  req.WarehouseID,
		ReorderLevel: *req.ReorderLevel,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, inv)
}

// GET /inventory/low-stock
func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	warehouseID, err := httpx.QueryID(r, "warehouse_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, pageSize, err := paging(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	items, total, err := h.uc.ListLowStock(r.Context(), warehouseID, page, pageSize)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// GET /inventory/movements
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.QueryID(r, "product_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	warehouseID, err := httpx.QueryID(r, "warehouse_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, pageSize, err := paging(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	start, err := queryDate(r, "start_date")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if end != nil {
		e := end.AddDate(0, 0, 1)
		end = &e
	}

	filters := &dto.MovementFilters{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		MovementType: r.URL.Query().Get("movement_type"),
		StartDate:    start,
		EndDate:      end,
		Page:         page,
		PageSize:     pageSize,
	}
	movements, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, pagedResponse{Items: movements, Total: total, Page: page, PageSize: pageSize})
}

// GET /inventory/export
func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.uc.ExportInventory(r.Context(), w); err != nil {
		h.logger.Error("inventory export failed", zap.Error(err))
		httpx.Error(w, r, err)
	}
}

func paging(r *http.Request) (int, int, error) {
	page, err := httpx.QueryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := httpx.QueryInt(r, "page_size", 20)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 || pageSize < 1 || pageSize > 100 {
		return 0, 0, apperror.Validation("page must be at least 1 and page_size between 1 and 100")
	}
	return page, pageSize, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("Invalid %s, expected YYYY-MM-DD", name))
	}
	return &t, nil
}

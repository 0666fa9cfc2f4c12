package handler

import (
	"net/http"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/order"
	"github.com/wa-thone-kyaw/ano-backend/internal/order/dto"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

type orderResponse struct {
	Message string       `json:"message"`
	ID      int64        `json:"id"`
	Order   *model.Order `json:"order"`
}

// GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := httpx.QueryID(r, "customer_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	productID, err := httpx.QueryID(r, "product_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, err := httpx.QueryInt(r, "page", 1)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	pageSize, err := httpx.QueryInt(r, "page_size", 0)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}

	status := model.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		httpx.Error(w, r, apperror.Validation("status must be one of [Pending Complete]"))
		return
	}

	orders, total, err := h.uc.ListOrders(r.Context(), &dto.OrderFilters{
		CustomerID: customerID,
		ProductID:  productID,
		Status:     status,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.SetTotalCount(w, total)
	httpx.OK(w, r, orders)
}

// GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, o)
}

// POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.PlaceOrderInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.uc.PlaceOrder(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, orderResponse{Message: "Order created successfully", ID: o.ID, Order: o})
}

// PUT /orders/{id}
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.UpdateOrderInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.uc.UpdateOrder(r.Context(), id, &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, orderResponse{Message: "Order updated successfully", ID: o.ID, Order: o})
}

// PUT /orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.UpdateStatusInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.UpdateOrderStatus(r.Context(), id, model.OrderStatus(input.Status)); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Order status updated successfully")
}

// DELETE /orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteOrder(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Order deleted successfully")
}

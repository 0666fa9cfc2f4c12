package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/catalog"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
)

// CatalogHandler serves list/get/create/update/delete for one catalog table.
type CatalogHandler[T any] struct {
	uc     catalog.UseCase[T]
	logger logger.ZapLogger
}

func NewCatalogHandler[T any](uc catalog.UseCase[T], log logger.ZapLogger) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		uc:     uc,
		logger: log,
	}
}

// GET /{table}
func (h *CatalogHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, items)
}

// GET /{table}/{id}
func (h *CatalogHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	item, err := h.uc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, item)
}

// POST /{table}
func (h *CatalogHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var req T
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	item, err := h.uc.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create "+h.uc.Label(), zap.Error(err))
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, item)
}

// PUT /{table}/{id}
func (h *CatalogHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req T
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	item, err := h.uc.Update(r.Context(), id, &req)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			h.logger.Error("failed to update "+h.uc.Label(), zap.Error(err))
		}
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, item)
}

// DELETE /{table}/{id}
func (h *CatalogHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, h.uc.Label()+" deleted successfully")
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner/dto"
)

type stubUseCase struct {
	partner.UseCase
	supplier *dto.SupplierInput
}

func (s *stubUseCase) CreateCustomer(ctx context.Context, in *dto.CustomerInput) (*model.Customer, error) {
	return &model.Customer{ID: 5, Name: in.Name}, nil
}

func (s *stubUseCase) DeleteCustomer(ctx context.Context, id int64) error {
	return apperror.InUse("Customer cannot be deleted; it has one or more orders.")
}

func (s *stubUseCase) CreateSupplier(ctx context.Context, in *dto.SupplierInput) (*model.Supplier, error) {
	s.supplier = in
	return &model.Supplier{ID: 2, Name: in.Name, Source: in.Source}, nil
}

func serve(uc partner.UseCase, method, path, body string) *httptest.ResponseRecorder {
	h := NewPartnerHandler(uc, logger.NewNop())
	r := chi.NewRouter()
	r.Post("/customers", h.CreateCustomer)
	r.Delete("/customers/{id}", h.DeleteCustomer)
	r.Post("/suppliers", h.CreateSupplier)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateCustomer(t *testing.T) {
	rec := serve(&stubUseCase{}, http.MethodPost, "/customers", `{"name":"Daw Hla","email":"hla@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Customer created successfully"`)
	assert.Contains(t, rec.Body.String(), `"id":5`)

	rec = serve(&stubUseCase{}, http.MethodPost, "/customers", `{"name":"Daw Hla","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCustomerInUse(t *testing.T) {
	rec := serve(&stubUseCase{}, http.MethodDelete, "/customers/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "it has one or more orders")
}

func TestCreateSupplierParsesJoinDate(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, http.MethodPost, "/suppliers", `{"name":"Golden Clay","source":"foreign","join_date":"2024-02-10T15:04:05Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.supplier.JoinDate)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *uc.supplier.JoinDate)

	rec = serve(uc, http.MethodPost, "/suppliers", `{"name":"Golden Clay","source":"martian"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(uc, http.MethodPost, "/suppliers", `{"name":"Golden Clay","join_date":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid join_date")
}

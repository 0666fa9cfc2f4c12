package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/product"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
)

const (
	defaultPage  = 1
	defaultLimit = 5
	// multipart parts above this size spill to temporary files
	formMemory = 8 << 20
)

type ProductHandler struct {
	uc        product.UseCase
	maxPhotos int
	logger    logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, maxPhotos int, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:        uc,
		maxPhotos: maxPhotos,
		logger:    log,
	}
}

type productListResponse struct {
	Products   []model.ProductDetail `json:"products"`
	TotalCount int                   `json:"totalCount"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}

type productResponse struct {
	Message string               `json:"message"`
	Data    *model.ProductDetail `json:"data"`
}

type priceResponse struct {
	Message string       `json:"message"`
	Data    *model.Price `json:"data"`
}

type latestPriceResponse struct {
	Success       bool            `json:"success"`
	Price         decimal.Decimal `json:"price"`
	EffectiveDate time.Time       `json:"effective_date"`
}

type priceNotFoundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.QueryInt(r, "_page", defaultPage)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	limit, err := httpx.QueryInt(r, "_limit", defaultLimit)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	filters := &dto.ProductFilters{
		Name:  strings.TrimSpace(r.URL.Query().Get("product_name_like")),
		Page:  page,
		Limit: limit,
	}
	for name, dst := range map[string]**int64{
		"type_id":     &filters.TypeID,
		"color_id":    &filters.ColorID,
		"category_id": &filters.CategoryID,
	} {
		if *dst, err = httpx.QueryID(r, name); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}

	products, total, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.SetTotalCount(w, total)
	httpx.OK(w, r, productListResponse{
		Products:   products,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	})
}

// GET /products/all
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.ListAllProducts(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, products)
}

// GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, p)
}

// POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, photos, cleanup, err := h.readProduct(r)
	defer cleanup()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), input, photos)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			h.logger.Error("failed to create product", zap.Error(err))
		}
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, productResponse{Message: "Product created successfully", Data: p})
}

// PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	input, photos, cleanup, err := h.readProduct(r)
	defer cleanup()
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	p, err := h.uc.UpdateProduct(r.Context(), id, input, photos)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			h.logger.Error("failed to update product", zap.Int64("product_id", id), zap.Error(err))
		}
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, productResponse{Message: "Product updated successfully", Data: p})
}

// DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Product deleted successfully")
}

// GET /products/{id}/prices
func (h *ProductHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	prices, err := h.uc.ListPrices(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, prices)
}

// POST /products/{id}/prices
func (h *ProductHandler) AddPrice(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.PriceInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	price, err := h.uc.AddPrice(r.Context(), id, &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, priceResponse{Message: "Price added successfully", Data: price})
}

// GET /prices
func (h *ProductHandler) ListAllPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.uc.ListAllPrices(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, prices)
}

// GET /prices/latest-price/{productId}
func (h *ProductHandler) LatestPrice(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "productId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	price, err := h.uc.LatestPrice(r.Context(), id)
	if errors.Is(err, apperror.ErrPriceNotFound) {
		httpx.JSON(w, r, http.StatusNotFound, priceNotFoundResponse{Message: apperror.ErrPriceNotFound.Message})
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, latestPriceResponse{Success: true, Price: price.Price, EffectiveDate: price.EffectiveDate})
}

// readProduct accepts either a multipart form with up to maxPhotos files
// under "photos" or a JSON body without photos. cleanup closes the opened
// files and must always be called.
func (h *ProductHandler) readProduct(r *http.Request) (*dto.ProductInput, []dto.PhotoUpload, func(), error) {
	var files []multipart.File
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var input dto.ProductInput
		if err := httpx.Bind(r, &input); err != nil {
			return nil, nil, cleanup, err
		}
		return &input, nil, cleanup, nil
	}

	if err := r.ParseMultipartForm(formMemory); err != nil {
		return nil, nil, cleanup, apperror.Validation("Invalid multipart form")
	}
	input, err := parseForm(r.MultipartForm.Value)
	if err != nil {
		return nil, nil, cleanup, err
	}
	if err := httpx.Validate(input); err != nil {
		return nil, nil, cleanup, err
	}

	headers := r.MultipartForm.File["photos"]
	if len(headers) > h.maxPhotos {
		return nil, nil, cleanup, apperror.Validation(fmt.Sprintf("Too many photos (max %d)", h.maxPhotos))
	}
	photos := make([]dto.PhotoUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, nil, cleanup, apperror.Validation("Invalid photo upload")
		}
		files = append(files, f)
		photos = append(photos, dto.PhotoUpload{Ext: filepath.Ext(fh.Filename), Body: f})
	}
	return input, photos, cleanup, nil
}

func parseForm(values map[string][]string) (*dto.ProductInput, error) {
	get := func(name string) string {
		if v := values[name]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	optional := func(name string) *string {
		if v := get(name); v != "" {
			return &v
		}
		return nil
	}

	input := &dto.ProductInput{
		ProductName:   get("product_name"),
		Size:          optional("size"),
		MoNumber:      optional("mo_number"),
		Description:   optional("description"),
		Currency:      get("currency"),
		MicrowaveSafe: formBool(get("microwave_safe")),
	}
	if v := get("is_active"); v != "" {
		active := formBool(v)
		input.IsActive = &active
	}

	var err error
	if input.TypeID, err = formID(get("type_id"), "type_id"); err != nil {
		return nil, err
	}
	if input.ColorID, err = formID(get("color_id"), "color_id"); err != nil {
		return nil, err
	}
	category, err := formID(get("category_id"), "category_id")
	if err != nil {
		return nil, err
	}
	if category != nil {
		input.CategoryID = *category
	}
	if v := get("pcs_per_box"); v != "" && v != "null" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, apperror.Validation("Invalid pcs_per_box")
		}
		input.PcsPerBox = &n
	}
	if v := get("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, apperror.Validation("Invalid quantity")
		}
		input.Quantity = n
	}
	if v := get("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, apperror.Validation("Invalid price")
		}
		input.Price = &price
	}
	return input, nil
}

func formID(v, name string) (*int64, error) {
	if v == "" || v == "null" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperror.Validation("Invalid " + name)
	}
	return &id, nil
}

func formBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

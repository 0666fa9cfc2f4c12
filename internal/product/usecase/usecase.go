package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	invdto "github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/metrics"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/product"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/rowgroup"
	"github.com/wa-thone-kyaw/ano-backend/internal/storage"
)

const (
	indexName       = "products"
	listCachePrefix = "products:list:"
	defaultCurrency = "MMK"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"product_name": { "type": "text" },
			"type_id": { "type": "long" },
			"color_id": { "type": "long" },
			"category_id": { "type": "long" },
			"size": { "type": "keyword" },
			"mo_number": { "type": "keyword" },
			"description": { "type": "text" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo   product.Repository
	tx     database.TxManager
	stock  product.StockAdder
	disk   storage.Disk
	cache  product.ListCache
	ttl    time.Duration
	index  product.Index
	logger logger.ZapLogger
	now    func() time.Time
	// async runs index maintenance off the request path.
	async func(func())
}

// NewProductUseCase builds the product use case. cache and index may be nil.
func NewProductUseCase(
	repo product.Repository,
	tx database.TxManager,
	stock product.StockAdder,
	disk storage.Disk,
	cache product.ListCache,
	ttl time.Duration,
	index product.Index,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:   repo,
		tx:     tx,
		stock:  stock,
		disk:   disk,
		cache:  cache,
		ttl:    ttl,
		index:  index,
		logger: log,
		now:    time.Now,
		async:  func(f func()) { go f() },
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.ProductInput, photos []dto.PhotoUpload) (*model.ProductDetail, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, apperror.Validation("Price must not be negative")
	}

	names, err := uc.storePhotos(ctx, photos)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	p := newProduct(input, now)
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
			return err
		}
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		if input.Price != nil {
			if err := uc.repo.AddPrice(ctx, newPrice(p.ID, *input.Price, input.Currency, now)); err != nil {
				return err
			}
		}
		if len(names) > 0 {
			if err := uc.repo.ReplacePhotos(ctx, p.ID, names); err != nil {
				return err
			}
		}
		// AddStock joins this transaction; its movement is emitted after commit.
		if input.Quantity > 0 {
			_, err := uc.stock.AddStock(ctx, &invdto.AddStockInput{
				ProductID: p.ID,
				Quantity:  input.Quantity,
				Note:      "opening stock",
			})
			return err
		}
		return nil
	})
	if err != nil {
		uc.deleteFiles(names)
		return nil, err
	}

	uc.logger.Info("product created", zap.Int64("product_id", p.ID), zap.Int("photos", len(names)))
	uc.invalidateListCache(ctx)
	uc.syncToIndex(p)

	return uc.GetProduct(ctx, p.ID)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int64, input *dto.ProductInput, photos []dto.PhotoUpload) (*model.ProductDetail, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, apperror.Validation("Price must not be negative")
	}

	names, err := uc.storePhotos(ctx, photos)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	p := newProduct(input, now)
	p.ID = id
	var replaced []model.Photo
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
			return err
		}
		ok, err := uc.repo.Update(ctx, p)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("Product")
		}

		if input.Price != nil {
			current, err := uc.repo.LatestPrice(ctx, id)
			if err != nil {
				return err
			}
			if current == nil || !current.Price.Equal(*input.Price) {
				if err := uc.repo.AddPrice(ctx, newPrice(id, *input.Price, input.Currency, now)); err != nil {
					return err
				}
			}
		}

		if len(names) > 0 {
			replaced, err = uc.repo.ListPhotos(ctx, id)
			if err != nil {
				return err
			}
			return uc.repo.ReplacePhotos(ctx, id, names)
		}
		return nil
	})
	if err != nil {
		uc.deleteFiles(names)
		return nil, err
	}

	old := make([]string, len(replaced))
	for i, ph := range replaced {
		old[i] = ph.Photo
	}
	uc.deleteFiles(old)
	uc.invalidateListCache(ctx)
	uc.syncToIndex(p)

	return uc.GetProduct(ctx, id)
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	var photos []model.Photo
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("Product")
		}
		ordered, err := uc.repo.HasOrders(ctx, id)
		if err != nil {
			return err
		}
		if ordered {
			return apperror.InUse("Product cannot be deleted; it is referenced by one or more orders.")
		}
		photos, err = uc.repo.ListPhotos(ctx, id)
		if err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	names := make([]string, len(photos))
	for i, ph := range photos {
		names[i] = ph.Photo
	}
	uc.deleteFiles(names)
	uc.invalidateListCache(ctx)

	if uc.index != nil {
		uc.async(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := uc.index.Delete(ctx, indexName, strconv.FormatInt(id, 10)); err != nil {
				uc.logger.Error("failed to delete product from index", zap.Int64("product_id", id), zap.Error(err))
			}
		})
	}
	return nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.ProductDetail, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("Product")
	}
	if err := uc.attachPhotos(ctx, []*model.ProductDetail{p}); err != nil {
		return nil, err
	}
	return p, nil
}

type cachedPage struct {
	Products []model.ProductDetail `json:"products"`
	Count    int                   `json:"count"`
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.ProductDetail, int, error) {
	if filters.Page < 1 || filters.Limit < 1 {
		return nil, 0, apperror.Validation("Page and limit must be greater than 0")
	}

	cacheKey := uc.cacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		var page cachedPage
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &page)
		switch {
		case err != nil:
			metrics.CacheRequests.WithLabelValues("error").Inc()
			uc.logger.Warn("product cache read failed", zap.Error(err))
		case hit:
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return page.Products, page.Count, nil
		default:
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
	}

	products, count, err := uc.searchProducts(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	ptrs := make([]*model.ProductDetail, len(products))
	for i := range products {
		ptrs[i] = &products[i]
	}
	if err := uc.attachPhotos(ctx, ptrs); err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedPage{Products: products, Count: count}, uc.ttl); err != nil {
			uc.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

// searchProducts answers name searches from the index when there is one and
// falls back to the database otherwise.
func (uc *productUseCase) searchProducts(ctx context.Context, f *dto.ProductFilters) ([]model.ProductDetail, int, error) {
	if f.Name != "" && uc.index != nil {
		products, count, err := uc.searchIndex(ctx, f)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("product search failed, falling back to database", zap.Error(err))
	}
	return uc.repo.FindAll(ctx, f)
}

func (uc *productUseCase) searchIndex(ctx context.Context, f *dto.ProductFilters) ([]model.ProductDetail, int, error) {
	filter := []map[string]interface{}{}
	for field, id := range map[string]*int64{"type_id": f.TypeID, "color_id": f.ColorID, "category_id": f.CategoryID} {
		if id != nil {
			filter = append(filter, map[string]interface{}{"term": map[string]interface{}{field: *id}})
		}
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", escapeQuery(f.Name)),
							"fields": []string{"product_name^3", "mo_number", "description"},
						},
					},
				},
				"filter": filter,
			},
		},
		"sort": []map[string]interface{}{{"created_at": "desc"}, {"id": "desc"}},
		"from": (f.Page - 1) * f.Limit,
		"size": f.Limit,
	}

	res, err := uc.index.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	found, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[int64]model.ProductDetail, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	products := make([]model.ProductDetail, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) ListAllProducts(ctx context.Context) ([]model.ProductDetail, error) {
	rows, err := uc.repo.ListWithPrices(ctx)
	if err != nil {
		return nil, err
	}

	products := rowgroup.Group(rows,
		func(r dto.PriceRow) int64 { return r.ProductID },
		func(r dto.PriceRow) model.ProductDetail {
			return model.ProductDetail{
				Product: model.Product{
					BaseModel:   model.BaseModel{ID: r.ProductID},
					ProductName: r.ProductName,
					TypeID:      r.TypeID,
					ColorID:     r.ColorID,
					CategoryID:  r.CategoryID,
					Size:        r.Size,
					MoNumber:    r.MoNumber,
				},
				PriceHistory: []model.Price{},
			}
		},
		func(p *model.ProductDetail, r dto.PriceRow) {
			if r.PriceID == nil || r.Price == nil {
				return
			}
			price := model.Price{ID: *r.PriceID, ProductID: r.ProductID, Price: *r.Price}
			if r.Currency != nil {
				price.Currency = *r.Currency
			}
			if r.EffectiveDate != nil {
				price.EffectiveDate = *r.EffectiveDate
			}
			p.PriceHistory = append(p.PriceHistory, price)
			if p.Price == nil {
				p.Price = &price.Price
				p.Currency = &price.Currency
			}
		},
	)

	ptrs := make([]*model.ProductDetail, len(products))
	for i := range products {
		ptrs[i] = &products[i]
	}
	if err := uc.attachPhotos(ctx, ptrs); err != nil {
		return nil, err
	}
	return products, nil
}

func (uc *productUseCase) AddPrice(ctx context.Context, productID int64, input *dto.PriceInput) (*model.Price, error) {
	if input.Price.IsNegative() {
		return nil, apperror.Validation("Price must not be negative")
	}
	effective := uc.now()
	if input.EffectiveDate != nil {
		effective = *input.EffectiveDate
	}
	price := newPrice(productID, input.Price, input.Currency, effective)

	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("Product")
		}
		return uc.repo.AddPrice(ctx, price)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateListCache(ctx)
	return price, nil
}

func (uc *productUseCase) LatestPrice(ctx context.Context, productID int64) (*model.Price, error) {
	price, err := uc.repo.LatestPrice(ctx, productID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, apperror.Wrap(apperror.ErrPriceNotFound, fmt.Errorf("product %d", productID))
	}
	return price, nil
}

func (uc *productUseCase) ListPrices(ctx context.Context, productID int64) ([]model.Price, error) {
	p, err := uc.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("Product")
	}
	return uc.repo.ListPrices(ctx, productID)
}

func (uc *productUseCase) ListAllPrices(ctx context.Context) ([]model.PriceListing, error) {
	return uc.repo.ListAllPrices(ctx)
}

func (uc *productUseCase) checkCategory(ctx context.Context, id int64) error {
	ok, err := uc.repo.CategoryExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Validation("Invalid category_id")
	}
	return nil
}

func (uc *productUseCase) attachPhotos(ctx context.Context, products []*model.ProductDetail) error {
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	photos, err := uc.repo.PhotosByProduct(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		p.Photos = photos[p.ID]
		if p.Photos == nil {
			p.Photos = []string{}
		}
		p.PhotoURLs = make([]string, len(p.Photos))
		for i, name := range p.Photos {
			p.PhotoURLs[i] = uc.disk.URL(name)
		}
	}
	return nil
}

// storePhotos writes uploads under fresh names. Files already written are
// removed if a later one fails.
func (uc *productUseCase) storePhotos(ctx context.Context, photos []dto.PhotoUpload) ([]string, error) {
	names := make([]string, 0, len(photos))
	for _, ph := range photos {
		name := uuid.New().String() + strings.ToLower(path.Ext(ph.Ext))
		if err := uc.disk.Put(ctx, name, ph.Body); err != nil {
			uc.deleteFiles(names)
			return nil, fmt.Errorf("store photo: %w", err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (uc *productUseCase) deleteFiles(names []string) {
	for _, name := range names {
		if err := uc.disk.Delete(context.Background(), name); err != nil {
			uc.logger.Warn("failed to delete photo", zap.String("photo", name), zap.Error(err))
		}
	}
}

func (uc *productUseCase) cacheKey(f *dto.ProductFilters) string {
	data, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data))
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) syncToIndex(p *model.Product) {
	if uc.index == nil {
		return
	}
	doc := dto.Document{
		ID:          p.ID,
		ProductName: p.ProductName,
		TypeID:      p.TypeID,
		ColorID:     p.ColorID,
		CategoryID:  p.CategoryID,
		Size:        p.Size,
		MoNumber:    p.MoNumber,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
	uc.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.index.CreateIndex(ctx, indexName, indexMapping); err != nil {
			uc.logger.Warn("failed to create product index", zap.Error(err))
		}
		if err := uc.index.Index(ctx, indexName, strconv.FormatInt(doc.ID, 10), doc); err != nil {
			uc.logger.Error("failed to index product", zap.Int64("product_id", doc.ID), zap.Error(err))
		}
	})
}

func newProduct(input *dto.ProductInput, now time.Time) *model.Product {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return &model.Product{
		BaseModel:     model.BaseModel{CreatedAt: now, UpdatedAt: now},
		ProductName:   strings.TrimSpace(input.ProductName),
		TypeID:        input.TypeID,
		ColorID:       input.ColorID,
		CategoryID:    input.CategoryID,
		Size:          input.Size,
		MoNumber:      input.MoNumber,
		PcsPerBox:     input.PcsPerBox,
		MicrowaveSafe: input.MicrowaveSafe,
		IsActive:      active,
		Description:   input.Description,
	}
}

func newPrice(productID int64, amount decimal.Decimal, currency string, effective time.Time) *model.Price {
	if currency == "" {
		currency = defaultCurrency
	}
	return &model.Price{
		ProductID:     productID,
		Price:         amount.Round(2),
		Currency:      currency,
		EffectiveDate: effective,
	}
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `=`, `\=`, `&`, `\&`, `|`, `\|`, `>`, `\>`, `<`, `\<`,
	`!`, `\!`, `(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`,
	`"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`,
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

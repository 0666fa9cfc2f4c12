package product

import (
	"context"
	"time"

	invdto "github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/search"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.ProductInput, photos []dto.PhotoUpload) (*model.ProductDetail, error)
	GetProduct(ctx context.Context, id int64) (*model.ProductDetail, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.ProductDetail, int, error)
	ListAllProducts(ctx context.Context) ([]model.ProductDetail, error)
	UpdateProduct(ctx context.Context, id int64, input *dto.ProductInput, photos []dto.PhotoUpload) (*model.ProductDetail, error)
	DeleteProduct(ctx context.Context, id int64) error

	AddPrice(ctx context.Context, productID int64, input *dto.PriceInput) (*model.Price, error)
	LatestPrice(ctx context.Context, productID int64) (*model.Price, error)
	ListPrices(ctx context.Context, productID int64) ([]model.Price, error)
	ListAllPrices(ctx context.Context) ([]model.PriceListing, error)
}

// StockAdder books opening stock for a new product.
type StockAdder interface {
	AddStock(ctx context.Context, input *invdto.AddStockInput) (*invdto.AddStockResult, error)
}

// ListCache caches product listings. Satisfied by *cache.RedisClient.
type ListCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Index is the product search index. Satisfied by *search.Client.
type Index interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResult, error)
}

package product

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
)

type Repository interface {
	CategoryExists(ctx context.Context, id int64) (bool, error)

	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.ProductDetail, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.ProductDetail, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.ProductDetail, int, error)
	ListWithPrices(ctx context.Context) ([]dto.PriceRow, error)
	Update(ctx context.Context, product *model.Product) (bool, error)
	Delete(ctx context.Context, id int64) error
	HasOrders(ctx context.Context, id int64) (bool, error)

	ListPhotos(ctx context.Context, productID int64) ([]model.Photo, error)
	PhotosByProduct(ctx context.Context, productIDs []int64) (map[int64][]string, error)
	ReplacePhotos(ctx context.Context, productID int64, names []string) error

	AddPrice(ctx context.Context, price *model.Price) error
	LatestPrice(ctx context.Context, productID int64) (*model.Price, error)
	ListPrices(ctx context.Context, productID int64) ([]model.Price, error)
	ListAllPrices(ctx context.Context) ([]model.PriceListing, error)
}

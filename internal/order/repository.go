package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/order/dto"
)

type Repository interface {
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
	// LatestUnitPrice returns the price with the greatest effective date.
	LatestUnitPrice(ctx context.Context, productID int64) (decimal.Decimal, bool, error)
	// ExistsForPair reports whether another order (id != excludeID) exists
	// for the customer and product.
	ExistsForPair(ctx context.Context, customerID, productID, excludeID int64) (bool, error)

	Create(ctx context.Context, o *model.Order) error
	// GetForUpdate locks the order row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int64) (*model.Order, error)
	Update(ctx context.Context, o *model.Order) error
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (bool, error)
	Delete(ctx context.Context, id int64) error

	FindByID(ctx context.Context, id int64) (*model.OrderDetail, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.OrderDetail, int, error)
}

package partner

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type CustomerRepository interface {
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	HasOrders(ctx context.Context, id int64) (bool, error)
}

type SupplierRepository interface {
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id int64) (*model.Supplier, error)
	Create(ctx context.Context, s *model.Supplier) error
	Update(ctx context.Context, s *model.Supplier) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

package partner

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner/dto"
)

type UseCase interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	CreateCustomer(ctx context.Context, input *dto.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, input *dto.CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, input *dto.SupplierInput) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, input *dto.SupplierInput) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner"
	"github.com/wa-thone-kyaw/ano-backend/internal/partner/dto"
)

type partnerUseCase struct {
	customers partner.CustomerRepository
	suppliers partner.SupplierRepository
	logger    logger.ZapLogger
}

func NewPartnerUseCase(customers partner.CustomerRepository, suppliers partner.SupplierRepository, log logger.ZapLogger) partner.UseCase {
	return &partnerUseCase{
		customers: customers,
		suppliers: suppliers,
		logger:    log,
	}
}

func (uc *partnerUseCase) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return uc.customers.FindAll(ctx)
}

func (uc *partnerUseCase) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := uc.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("Customer")
	}
	return c, nil
}

func (uc *partnerUseCase) CreateCustomer(ctx context.Context, input *dto.CustomerInput) (*model.Customer, error) {
	c := newCustomer(input)
	if err := uc.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *partnerUseCase) UpdateCustomer(ctx context.Context, id int64, input *dto.CustomerInput) (*model.Customer, error) {
	c := newCustomer(input)
	c.ID = id
	ok, err := uc.customers.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("Customer")
	}
	return c, nil
}

func (uc *partnerUseCase) DeleteCustomer(ctx context.Context, id int64) error {
	ordered, err := uc.customers.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		uc.logger.Info("customer delete refused, orders exist", zap.Int64("customer_id", id))
		return apperror.InUse("Customer cannot be deleted; it has one or more orders.")
	}
	ok, err := uc.customers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Customer")
	}
	return nil
}

func (uc *partnerUseCase) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return uc.suppliers.FindAll(ctx)
}

func (uc *partnerUseCase) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	s, err := uc.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound("Supplier")
	}
	return s, nil
}

func (uc *partnerUseCase) CreateSupplier(ctx context.Context, input *dto.SupplierInput) (*model.Supplier, error) {
	s := newSupplier(input)
	if err := uc.suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *partnerUseCase) UpdateSupplier(ctx context.Context, id int64, input *dto.SupplierInput) (*model.Supplier, error) {
	s := newSupplier(input)
	s.ID = id
	ok, err := uc.suppliers.Update(ctx, s)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("Supplier")
	}
	return s, nil
}

func (uc *partnerUseCase) DeleteSupplier(ctx context.Context, id int64) error {
	ok, err := uc.suppliers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Supplier")
	}
	return nil
}

func newCustomer(in *dto.CustomerInput) *model.Customer {
	return &model.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		BusinessName: in.BusinessName,
	}
}

func newSupplier(in *dto.SupplierInput) *model.Supplier {
	source := in.Source
	if source == "" {
		source = dto.SourceLocal
	}
	return &model.Supplier{
		Name:          strings.TrimSpace(in.Name),
		Address:       in.Address,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Source:        source,
		JoinDate:      in.JoinDate,
	}
}

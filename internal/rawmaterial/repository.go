package rawmaterial

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type Repository interface {
	// Materials
	Create(ctx context.Context, m *model.RawMaterial) error
	GetByID(ctx context.Context, id int64) (*model.RawMaterial, error)
	GetForUpdate(ctx context.Context, id int64) (*model.RawMaterial, error)
	FindAll(ctx context.Context) ([]model.RawMaterial, error)
	Update(ctx context.Context, m *model.RawMaterial) error
	Delete(ctx context.Context, id int64) error
	HasUsages(ctx context.Context, id int64) (bool, error)

	// ApplyDelta adds delta to the material quantity unless the result would
	// be negative. The bool is false when the guard rejected the change or
	// the material does not exist.
	ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, bool, error)

	// Movements / Audit
	LogMovement(ctx context.Context, m *model.RawMaterialMovement) error
	ListMovements(ctx context.Context, materialID int64) ([]model.RawMaterialMovement, error)

	// Usages
	CreateUsage(ctx context.Context, u *model.RawMaterialUsage) error
	GetUsageForUpdate(ctx context.Context, id int64) (*model.RawMaterialUsage, error)
	UpdateUsage(ctx context.Context, u *model.RawMaterialUsage) error
	DeleteUsage(ctx context.Context, id int64) error
	ListUsages(ctx context.Context) ([]model.UsageView, error)
	ListUsagesByMaterial(ctx context.Context, materialID int64) ([]model.RawMaterialUsage, error)
}

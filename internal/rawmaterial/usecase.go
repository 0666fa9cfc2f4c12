package rawmaterial

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.RawMaterialInput) (*model.RawMaterial, error)
	Get(ctx context.Context, id int64) (*model.RawMaterial, error)
	List(ctx context.Context) ([]model.RawMaterial, error)
	Update(ctx context.Context, id int64, input *dto.RawMaterialInput) (*model.RawMaterial, error)
	Delete(ctx context.Context, id int64) error
	ListMovements(ctx context.Context, id int64) ([]model.RawMaterialMovement, error)

	RecordUsage(ctx context.Context, input *dto.UsageInput) (*model.RawMaterialUsage, error)
	EditUsage(ctx context.Context, id int64, input *dto.UsageInput) (*model.RawMaterialUsage, error)
	DeleteUsage(ctx context.Context, id int64) error
	ListUsages(ctx context.Context) ([]model.UsageView, error)
	ListUsageDetails(ctx context.Context, materialID int64) (*model.UsageDetails, error)
}

// MovementEmitter is notified of movements once the outermost transaction
// they were recorded in commits. Implementations must not block.
type MovementEmitter interface {
	RawMaterialMovements(ctx context.Context, movements ...model.RawMaterialMovement)
}

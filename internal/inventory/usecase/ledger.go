package usecase

import (
	"context"
	"time"

	"github.com/wa-thone-kyaw/ano-backend/internal/auth"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/metrics"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type stockLedger struct {
	repo inventory.Repository
	now  func() time.Time
}

func NewLedger(repo inventory.Repository) inventory.Ledger {
	return &stockLedger{repo: repo, now: time.Now}
}

func (l *stockLedger) Move(ctx context.Context, input *dto.MoveInput) (*model.InventoryMovement, error) {
	if input.Delta > 0 {
		if err := l.repo.EnsureRow(ctx, input.ProductID, input.WarehouseID); err != nil {
			return nil, err
		}
	}

	after, ok, err := l.repo.ApplyDelta(ctx, input.ProductID, input.WarehouseID, input.Delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.LedgerRejections.WithLabelValues("inventory", string(input.MovementType)).Inc()
		return nil, inventory.ErrRejected
	}

	var refType *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	var refID *int64
	if input.ReferenceID != 0 {
		refID = &input.ReferenceID
	}

	movement := &model.InventoryMovement{
		ProductID:      input.ProductID,
		WarehouseID:    input.WarehouseID,
		MovementType:   input.MovementType,
		QuantityChange: input.Delta,
		QuantityBefore: after - input.Delta,
		QuantityAfter:  after,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Note:           input.Note,
		CreatedBy:      auth.ActorID(ctx),
		CreatedAt:      l.now(),
	}
	if err := l.repo.LogMovement(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

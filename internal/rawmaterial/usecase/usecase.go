package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/ledger"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/metrics"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial"
	"github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/dto"
)

type rawMaterialUseCase struct {
	repo    rawmaterial.Repository
	tx      database.TxManager
	emitter rawmaterial.MovementEmitter
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewRawMaterialUseCase(
	repo rawmaterial.Repository,
	tx database.TxManager,
	emitter rawmaterial.MovementEmitter,
	log logger.ZapLogger,
) rawmaterial.UseCase {
	return &rawMaterialUseCase{
		repo:    repo,
		tx:      tx,
		emitter: emitter,
		logger:  log,
		now:     time.Now,
	}
}

func validateMaterial(input *dto.RawMaterialInput) error {
	if strings.TrimSpace(input.MaterialName) == "" {
		return apperror.Validation("material_name is required")
	}
	if input.Quantity.IsNegative() {
		return apperror.Validation("quantity must be at least 0")
	}
	switch input.Source {
	case "":
		input.Source = dto.SourceLocal
	case dto.SourceLocal, dto.SourceForeign:
	default:
		return apperror.Validation("localOrForeign must be one of [local foreign]")
	}
	return nil
}

func (uc *rawMaterialUseCase) Create(ctx context.Context, input *dto.RawMaterialInput) (*model.RawMaterial, error) {
	if err := validateMaterial(input); err != nil {
		return nil, err
	}

	m := &model.RawMaterial{
		MaterialName: input.MaterialName,
		Source:       input.Source,
		ImportDate:   input.ImportDate,
		Quantity:     input.Quantity,
		Importer:     input.Importer,
		Unit:         input.Unit,
	}

	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, m); err != nil {
			return err
		}
		if m.Quantity.IsZero() {
			return nil
		}
		return uc.record(ctx, m.ID, decimal.Zero, m.Quantity, model.MovementInitial, 0)
	})
	if err != nil {
		uc.logger.Error("failed to create raw material", zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (uc *rawMaterialUseCase) Get(ctx context.Context, id int64) (*model.RawMaterial, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Raw material")
	}
	return m, nil
}

func (uc *rawMaterialUseCase) List(ctx context.Context) ([]model.RawMaterial, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *rawMaterialUseCase) Update(ctx context.Context, id int64, input *dto.RawMaterialInput) (*model.RawMaterial, error) {
	if err := validateMaterial(input); err != nil {
		return nil, err
	}

	var updated *model.RawMaterial
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := uc.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return apperror.NotFound("Raw material")
		}

		if !m.Quantity.Equal(input.Quantity) {
			if err := uc.record(ctx, id, m.Quantity, input.Quantity, model.MovementAdjustment, 0); err != nil {
				return err
			}
		}

		m.MaterialName = input.MaterialName
		m.Source = input.Source
		m.ImportDate = input.ImportDate
		m.Quantity = input.Quantity
		m.Importer = input.Importer
		m.Unit = input.Unit
		if err := uc.repo.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *rawMaterialUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := uc.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return apperror.NotFound("Raw material")
		}
		used, err := uc.repo.HasUsages(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperror.InUse("Raw material is used by usage records")
		}
		return uc.repo.Delete(ctx, id)
	})
}

func (uc *rawMaterialUseCase) ListMovements(ctx context.Context, id int64) ([]model.RawMaterialMovement, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	return uc.repo.ListMovements(ctx, id)
}

func validateUsage(input *dto.UsageInput) error {
	if input.RawMaterialID <= 0 || input.UsageDate.IsZero() {
		return apperror.Validation("Missing required fields")
	}
	if !input.UsedQuantity.IsPositive() {
		return apperror.Validation("used_quantity must be greater than 0")
	}
	return nil
}

func (uc *rawMaterialUseCase) RecordUsage(ctx context.Context, input *dto.UsageInput) (*model.RawMaterialUsage, error) {
	if err := validateUsage(input); err != nil {
		return nil, err
	}

	u := &model.RawMaterialUsage{
		RawMaterialID: input.RawMaterialID,
		UsedQuantity:  input.UsedQuantity,
		UsageDate:     input.UsageDate,
		Purpose:       input.Purpose,
	}

	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := uc.repo.GetByID(ctx, input.RawMaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperror.NotFound("Raw material")
		}
		if err := uc.repo.CreateUsage(ctx, u); err != nil {
			return err
		}
		return uc.move(ctx, u.RawMaterialID, u.UsedQuantity.Neg(), model.MovementUsageRecorded, u.ID)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *rawMaterialUseCase) EditUsage(ctx context.Context, id int64, input *dto.UsageInput) (*model.RawMaterialUsage, error) {
	if err := validateUsage(input); err != nil {
		return nil, err
	}

	var updated *model.RawMaterialUsage
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		u, err := uc.repo.GetUsageForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return apperror.NotFound("Usage record")
		}

		if u.RawMaterialID == input.RawMaterialID {
			if delta := u.UsedQuantity.Sub(input.UsedQuantity); !delta.IsZero() {
				if err := uc.move(ctx, u.RawMaterialID, delta, model.MovementUsageEdited, id); err != nil {
					return err
				}
			}
		} else {
			target, err := uc.repo.GetByID(ctx, input.RawMaterialID)
			if err != nil {
				return err
			}
			if target == nil {
				return apperror.NotFound("Raw material")
			}
			if err := uc.move(ctx, u.RawMaterialID, u.UsedQuantity, model.MovementUsageEdited, id); err != nil {
				return err
			}
			if err := uc.move(ctx, input.RawMaterialID, input.UsedQuantity.Neg(), model.MovementUsageEdited, id); err != nil {
				return err
			}
		}

		u.RawMaterialID = input.RawMaterialID
		u.UsedQuantity = input.UsedQuantity
		u.UsageDate = input.UsageDate
		u.Purpose = input.Purpose
		if err := uc.repo.UpdateUsage(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *rawMaterialUseCase) DeleteUsage(ctx context.Context, id int64) error {
	return uc.tx.WithTx(ctx, func(ctx context.Context) error {
		u, err := uc.repo.GetUsageForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return apperror.NotFound("Usage record")
		}
		if err := uc.repo.DeleteUsage(ctx, id); err != nil {
			return err
		}
		return uc.move(ctx, u.RawMaterialID, u.UsedQuantity, model.MovementUsageDeleted, id)
	})
}

func (uc *rawMaterialUseCase) ListUsages(ctx context.Context) ([]model.UsageView, error) {
	return uc.repo.ListUsages(ctx)
}

func (uc *rawMaterialUseCase) ListUsageDetails(ctx context.Context, materialID int64) (*model.UsageDetails, error) {
	m, err := uc.Get(ctx, materialID)
	if err != nil {
		return nil, err
	}
	usages, err := uc.repo.ListUsagesByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry[decimal.Decimal], len(usages))
	byID := make(map[int64]model.RawMaterialUsage, len(usages))
	totalUsed := decimal.Zero
	for i, u := range usages {
		entries[i] = ledger.Entry[decimal.Decimal]{ID: u.ID, At: u.UsageDate, Amount: u.UsedQuantity}
		byID[u.ID] = u
		totalUsed = totalUsed.Add(u.UsedQuantity)
	}

	details := &model.UsageDetails{
		RawMaterialID:     m.ID,
		RawMaterialName:   m.MaterialName,
		Unit:              m.Unit,
		RemainingQuantity: m.Quantity,
		TotalUsed:         totalUsed,
		UsageDetails:      make([]model.UsageDetailEntry, 0, len(usages)),
	}
	opening := m.Quantity.Add(totalUsed)
	for _, t := range ledger.Decimals(entries) {
		details.UsageDetails = append(details.UsageDetails, model.UsageDetailEntry{
			RawMaterialUsage: byID[t.ID],
			CumulativeUsed:   t.Cumulative,
			RemainingAfter:   opening.Sub(t.Cumulative),
		})
	}
	return details, nil
}

// move applies a guarded quantity change and records it.
func (uc *rawMaterialUseCase) move(ctx context.Context, materialID int64, delta decimal.Decimal, kind model.MovementType, usageID int64) error {
	after, ok, err := uc.repo.ApplyDelta(ctx, materialID, delta)
	if err != nil {
		return err
	}
	if !ok {
		metrics.LedgerRejections.WithLabelValues("raw_material", string(kind)).Inc()
		m, err := uc.repo.GetByID(ctx, materialID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperror.NotFound("Raw material")
		}
		return apperror.ErrInsufficientQuantity
	}
	return uc.record(ctx, materialID, after.Sub(delta), after, kind, usageID)
}

// record appends the movement and queues it for the emitter once the
// transaction commits.
func (uc *rawMaterialUseCase) record(ctx context.Context, materialID int64, before, after decimal.Decimal, kind model.MovementType, usageID int64) error {
	mv := &model.RawMaterialMovement{
		RawMaterialID:  materialID,
		MovementType:   kind,
		QuantityChange: after.Sub(before),
		QuantityBefore: before,
		QuantityAfter:  after,
		CreatedAt:      uc.now(),
	}
	if usageID != 0 {
		ref := model.RefUsage
		mv.ReferenceType = &ref
		mv.ReferenceID = &usageID
	}
	if err := uc.repo.LogMovement(ctx, mv); err != nil {
		return err
	}
	database.AfterCommit(ctx, func() {
		uc.emitter.RawMaterialMovements(ctx, *mv)
	})
	return nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/ledger"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type inventoryUseCase struct {
	repo               inventory.Repository
	ledger             inventory.Ledger
	tx                 database.TxManager
	emitter            inventory.MovementEmitter
	defaultWarehouseID int64
	logger             logger.ZapLogger
	now                func() time.Time
}

func NewInventoryUseCase(
	repo inventory.Repository,
	stock inventory.Ledger,
	tx database.TxManager,
	emitter inventory.MovementEmitter,
	defaultWarehouseID int64,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		repo:               repo,
		ledger:             stock,
		tx:                 tx,
		emitter:            emitter,
		defaultWarehouseID: defaultWarehouseID,
		logger:             log,
		now:                time.Now,
	}
}

// emitAfterCommit hands ms to the emitter once the enclosing transaction,
// including any outer one joined by a caller, has committed.
func (uc *inventoryUseCase) emitAfterCommit(ctx context.Context, ms ...model.InventoryMovement) {
	database.AfterCommit(ctx, func() {
		uc.emitter.InventoryMovements(ctx, ms...)
	})
}

func (uc *inventoryUseCase) warehouseOrDefault(id *int64) int64 {
	if id != nil && *id > 0 {
		return *id
	}
	return uc.defaultWarehouseID
}

func (uc *inventoryUseCase) AddStock(ctx context.Context, input *dto.AddStockInput) (*dto.AddStockResult, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("Invalid product ID or stock value")
	}
	warehouseID := uc.warehouseOrDefault(input.WarehouseID)

	var result *dto.AddStockResult
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, found, err := uc.repo.FindProductName(ctx, input.ProductID); err != nil {
			return err
		} else if !found {
			return apperror.NotFound("Product")
		}
		exists, err := uc.repo.WarehouseExists(ctx, warehouseID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NotFound("Warehouse")
		}

		log := model.StockLog{
			ProductID:   input.ProductID,
			WarehouseID: warehouseID,
			AddedStock:  input.Quantity,
			DateTime:    uc.now(),
		}
		if err := uc.repo.CreateStockLog(ctx, &log); err != nil {
			return err
		}

		movement, err := uc.ledger.Move(ctx, &dto.MoveInput{
			ProductID:     input.ProductID,
			WarehouseID:   warehouseID,
			Delta:         input.Quantity,
			MovementType:  model.MovementStockIn,
			ReferenceType: model.RefStockLog,
			ReferenceID:   log.ID,
			Note:          input.Note,
		})
		if err != nil {
			return err
		}
		uc.emitAfterCommit(ctx, *movement)

		result = &dto.AddStockResult{
			ProductID:   input.ProductID,
			WarehouseID: warehouseID,
			Quantity:    movement.QuantityAfter,
			Log:         log,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *inventoryUseCase) EditStockLog(ctx context.Context, logID int64, amount int) (*model.StockLog, error) {
	if amount <= 0 {
		return nil, apperror.Validation("Invalid log ID or stock value")
	}

	var updated *model.StockLog
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		log, err := uc.repo.GetStockLog(ctx, logID)
		if err != nil {
			return err
		}
		if log == nil {
			return apperror.NotFound("Stock log")
		}

		diff := amount - log.AddedStock
		if diff != 0 {
			movement, err := uc.ledger.Move(ctx, &dto.MoveInput{
				ProductID:     log.ProductID,
				WarehouseID:   log.WarehouseID,
				Delta:         diff,
				MovementType:  model.MovementStockLogEdit,
				ReferenceType: model.RefStockLog,
				ReferenceID:   log.ID,
			})
			if errors.Is(err, inventory.ErrRejected) {
				return apperror.Wrap(apperror.ErrNegativeStock, err)
			}
			if err != nil {
				return err
			}
			uc.emitAfterCommit(ctx, *movement)
		}

		log.AddedStock = amount
		log.DateTime = uc.now()
		if err := uc.repo.UpdateStockLog(ctx, log); err != nil {
			return err
		}
		updated = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *inventoryUseCase) DeleteStockLog(ctx context.Context, logID int64) error {
	return uc.tx.WithTx(ctx, func(ctx context.Context) error {
		log, err := uc.repo.GetStockLog(ctx, logID)
		if err != nil {
			return err
		}
		if log == nil {
			return apperror.NotFound("Stock log")
		}

		movement, err := uc.ledger.Move(ctx, &dto.MoveInput{
			ProductID:     log.ProductID,
			WarehouseID:   log.WarehouseID,
			Delta:         -log.AddedStock,
			MovementType:  model.MovementStockLogDelete,
			ReferenceType: model.RefStockLog,
			ReferenceID:   log.ID,
		})
		if errors.Is(err, inventory.ErrRejected) {
			return apperror.Wrap(apperror.ErrNegativeStock, err)
		}
		if err != nil {
			return err
		}
		uc.emitAfterCommit(ctx, *movement)

		return uc.repo.DeleteStockLog(ctx, logID)
	})
}

func (uc *inventoryUseCase) ListInventory(ctx context.Context) ([]model.StockLogView, error) {
	return uc.repo.ListInventoryLogs(ctx)
}

func (uc *inventoryUseCase) StockDetails(ctx context.Context, productID int64) (*model.StockDetails, error) {
	name, found, err := uc.repo.FindProductName(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("Product")
	}

	logs, err := uc.repo.ListStockLogs(ctx, productID)
	if err != nil {
		return nil, err
	}
	remaining, err := uc.repo.SumQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry[int], len(logs))
	byID := make(map[int64]model.StockLog, len(logs))
	for i, l := range logs {
		entries[i] = ledger.Entry[int]{ID: l.ID, At: l.DateTime, Amount: l.AddedStock}
		byID[l.ID] = l
	}

	details := &model.StockDetails{
		ProductID:      productID,
		ProductName:    name,
		RemainingStock: remaining,
		StockDetails:   make([]model.StockLogEntry, 0, len(logs)),
	}
	for _, t := range ledger.Ints(entries) {
		details.StockDetails = append(details.StockDetails, model.StockLogEntry{
			StockLog:       byID[t.ID],
			RemainingStock: t.Cumulative,
		})
		details.TotalStock += t.Amount
	}
	return details, nil
}

func (uc *inventoryUseCase) GetProductInventory(ctx context.Context, productID int64, warehouseID *int64) (*model.Inventory, error) {
	wh := uc.warehouseOrDefault(warehouseID)
	inv, err := uc.repo.GetByProduct(ctx, productID, wh)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		if _, found, err := uc.repo.FindProductName(ctx, productID); err != nil {
			return nil, err
		} else if !found {
			return nil, apperror.NotFound("Product")
		}
		return &model.Inventory{ProductID: productID, WarehouseID: wh}, nil
	}
	return inv, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, warehouseID *int64, page, pageSize int) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		WarehouseID: warehouseID,
		LowStock:    true,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (uc *inventoryUseCase) SetReorderLevel(ctx context.Context, input *dto.ReorderLevelInput) (*model.Inventory, error) {
	if input.ReorderLevel < 0 {
		return nil, apperror.Validation("reorder_level must be at least 0")
	}
	wh := uc.warehouseOrDefault(input.WarehouseID)

	var inv *model.Inventory
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, found, err := uc.repo.FindProductName(ctx, input.ProductID); err != nil {
			return err
		} else if !found {
			return apperror.NotFound("Product")
		}
		exists, err := uc.repo.WarehouseExists(ctx, wh)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NotFound("Warehouse")
		}
		inv, err = uc.repo.SetReorderLevel(ctx, input.ProductID, wh, input.ReorderLevel)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reorder level set",
		zap.Int64("product_id", input.ProductID),
		zap.Int64("warehouse_id", wh),
		zap.Int("reorder_level", input.ReorderLevel),
	)
	return inv, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	invdto "github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/order"
	"github.com/wa-thone-kyaw/ano-backend/internal/order/dto"
)

type orderUseCase struct {
	repo               order.Repository
	ledger             inventory.Ledger
	tx                 database.TxManager
	emitter            inventory.MovementEmitter
	defaultWarehouseID int64
	logger             logger.ZapLogger
	now                func() time.Time
}

func NewOrderUseCase(
	repo order.Repository,
	stock inventory.Ledger,
	tx database.TxManager,
	emitter inventory.MovementEmitter,
	defaultWarehouseID int64,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:               repo,
		ledger:             stock,
		tx:                 tx,
		emitter:            emitter,
		defaultWarehouseID: defaultWarehouseID,
		logger:             log,
		now:                time.Now,
	}
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be greater than 0")
	}
	warehouseID := uc.defaultWarehouseID
	if input.WarehouseID != nil && *input.WarehouseID > 0 {
		warehouseID = *input.WarehouseID
	}

	o := &model.Order{
		CustomerID:      input.CustomerID,
		ProductID:       input.ProductID,
		WarehouseID:     warehouseID,
		Quantity:        input.Quantity,
		DeliveryAddress: input.DeliveryAddress,
		Note:            input.Note,
		Status:          model.OrderPending,
		OrderDate:       uc.now(),
	}

	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.checkParties(ctx, input.CustomerID, input.ProductID); err != nil {
			return err
		}
		if err := uc.checkDuplicate(ctx, input.CustomerID, input.ProductID, 0); err != nil {
			return err
		}
		total, err := uc.total(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		o.Total = total

		if err := uc.repo.Create(ctx, o); err != nil {
			return err
		}

		return uc.move(ctx, o.ProductID, o.WarehouseID, -o.Quantity, model.MovementOrderPlaced, o.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, id int64, input *dto.UpdateOrderInput) (*model.Order, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be greater than 0")
	}

	var updated *model.Order
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := uc.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFound("Order")
		}
		if err := uc.checkParties(ctx, input.CustomerID, input.ProductID); err != nil {
			return err
		}
		if input.CustomerID != current.CustomerID || input.ProductID != current.ProductID {
			if err := uc.checkDuplicate(ctx, input.CustomerID, input.ProductID, id); err != nil {
				return err
			}
		}

		if input.ProductID == current.ProductID {
			if diff := input.Quantity - current.Quantity; diff != 0 {
				if err := uc.move(ctx, current.ProductID, current.WarehouseID, -diff, model.MovementOrderUpdated, id); err != nil {
					return err
				}
			}
		} else {
			if err := uc.move(ctx, current.ProductID, current.WarehouseID, current.Quantity, model.MovementOrderUpdated, id); err != nil {
				return err
			}
			if err := uc.move(ctx, input.ProductID, current.WarehouseID, -input.Quantity, model.MovementOrderUpdated, id); err != nil {
				return err
			}
		}

		total, err := uc.total(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}

		current.CustomerID = input.CustomerID
		current.ProductID = input.ProductID
		current.Quantity = input.Quantity
		current.DeliveryAddress = input.DeliveryAddress
		current.Note = input.Note
		current.Total = total
		if err := uc.repo.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id int64) error {
	return uc.tx.WithTx(ctx, func(ctx context.Context) error {
		o, err := uc.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("Order")
		}

		if err := uc.move(ctx, o.ProductID, o.WarehouseID, o.Quantity, model.MovementOrderCancelled, o.ID); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
}

func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if !status.Valid() {
		return apperror.Validation("status must be one of [Pending Complete]")
	}
	found, err := uc.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		uc.logger.Error("failed to update order status", zap.Int64("order_id", id), zap.Error(err))
		return err
	}
	if !found {
		return apperror.NotFound("Order")
	}
	return nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id int64) (*model.OrderDetail, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("Order")
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.OrderDetail, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) checkParties(ctx context.Context, customerID, productID int64) error {
	ok, err := uc.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Customer")
	}
	ok, err = uc.repo.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Product")
	}
	return nil
}

func (uc *orderUseCase) checkDuplicate(ctx context.Context, customerID, productID, excludeID int64) error {
	dup, err := uc.repo.ExistsForPair(ctx, customerID, productID, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return apperror.ErrDuplicateOrder
	}
	return nil
}

func (uc *orderUseCase) total(ctx context.Context, productID int64, quantity int) (decimal.Decimal, error) {
	price, ok, err := uc.repo.LatestUnitPrice(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, apperror.ErrPriceNotFound
	}
	return price.Mul(decimal.NewFromInt(int64(quantity))), nil
}

func (uc *orderUseCase) move(ctx context.Context, productID, warehouseID int64, delta int, kind model.MovementType, orderID int64) error {
	m, err := uc.ledger.Move(ctx, &invdto.MoveInput{
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Delta:         delta,
		MovementType:  kind,
		ReferenceType: model.RefOrder,
		ReferenceID:   orderID,
	})
	if errors.Is(err, inventory.ErrRejected) {
		return apperror.Wrap(apperror.ErrInsufficientInventory, err)
	}
	if err != nil {
		return err
	}
	database.AfterCommit(ctx, func() {
		uc.emitter.InventoryMovements(ctx, *m)
	})
	return nil
}

package inventory

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type Repository interface {
	// Lookups
	FindProductName(ctx context.Context, productID int64) (string, bool, error)
	WarehouseExists(ctx context.Context, warehouseID int64) (bool, error)

	// Inventory rows
	GetByProduct(ctx context.Context, productID, warehouseID int64) (*model.Inventory, error)
	SumQuantity(ctx context.Context, productID int64) (int, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error)
	EnsureRow(ctx context.Context, productID, warehouseID int64) error
	SetReorderLevel(ctx context.Context, productID, warehouseID int64, level int) (*model.Inventory, error)

	// ApplyDelta adds delta to the stored quantity unless the result would be
	// negative. The bool is false when the guard rejected the change or the
	// row does not exist.
	ApplyDelta(ctx context.Context, productID, warehouseID int64, delta int) (int, bool, error)

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// Stock logs
	CreateStockLog(ctx context.Context, log *model.StockLog) error
	GetStockLog(ctx context.Context, id int64) (*model.StockLog, error)
	UpdateStockLog(ctx context.Context, log *model.StockLog) error
	DeleteStockLog(ctx context.Context, id int64) error
	ListStockLogs(ctx context.Context, productID int64) ([]model.StockLog, error)
	ListInventoryLogs(ctx context.Context) ([]model.StockLogView, error)
}

package inventory

import (
	"context"
	"errors"
	"io"

	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

// ErrRejected is returned by Ledger.Move when the quantity would go negative.
var ErrRejected = errors.New("quantity change rejected: stock would go negative")

type UseCase interface {
	AddStock(ctx context.Context, input *dto.AddStockInput) (*dto.AddStockResult, error)
	EditStockLog(ctx context.Context, logID int64, amount int) (*model.StockLog, error)
	DeleteStockLog(ctx context.Context, logID int64) error

	ListInventory(ctx context.Context) ([]model.StockLogView, error)
	StockDetails(ctx context.Context, productID int64) (*model.StockDetails, error)
	GetProductInventory(ctx context.Context, productID int64, warehouseID *int64) (*model.Inventory, error)
	ListLowStock(ctx context.Context, warehouseID *int64, page, pageSize int) ([]model.InventoryItem, int, error)
	SetReorderLevel(ctx context.Context, input *dto.ReorderLevelInput) (*model.Inventory, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
	ExportInventory(ctx context.Context, w io.Writer) error
}

// Ledger applies one guarded quantity change and records its movement. It
// must run inside the caller's transaction.
type Ledger interface {
	Move(ctx context.Context, input *dto.MoveInput) (*model.InventoryMovement, error)
}

// MovementEmitter is notified of movements once the outermost transaction
// they were recorded in commits. Implementations must not block.
type MovementEmitter interface {
	InventoryMovements(ctx context.Context, movements ...model.InventoryMovement)
}

package dto

import (
	"time"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type InventoryFilters struct {
	ProductID   *int64
	WarehouseID *int64
	LowStock    bool // reorder_level > 0 AND quantity <= reorder_level
	Page        int
	PageSize    int
}

type MovementFilters struct {
	ProductID    *int64
	WarehouseID  *int64
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

type AddStockResult struct {
	ProductID   int64          `json:"product_id"`
	WarehouseID int64          `json:"warehouse_id"`
	Quantity    int            `json:"quantity"`
	Log         model.StockLog `json:"stock_log"`
}

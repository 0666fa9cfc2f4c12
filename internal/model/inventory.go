package model

import "time"

type MovementType string

const (
	MovementStockIn        MovementType = "stock_in"
	MovementStockLogEdit   MovementType = "stock_log_edit"
	MovementStockLogDelete MovementType = "stock_log_delete"
	MovementOrderPlaced    MovementType = "order_placed"
	MovementOrderUpdated   MovementType = "order_updated"
	MovementOrderCancelled MovementType = "order_cancelled"

	MovementInitial       MovementType = "initial"
	MovementAdjustment    MovementType = "adjustment"
	MovementUsageRecorded MovementType = "usage_recorded"
	MovementUsageEdited   MovementType = "usage_edited"
	MovementUsageDeleted  MovementType = "usage_deleted"
)

const (
	RefStockLog = "stock_log"
	RefOrder    = "order"
	RefUsage    = "raw_material_usage"
	RefReceipt  = "receipt"
)

type Inventory struct {
	ID           int64     `db:"id" json:"id"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	WarehouseID  int64     `db:"warehouse_id" json:"warehouse_id"`
	Quantity     int       `db:"quantity" json:"quantity"`
	ReorderLevel int       `db:"reorder_level" json:"reorder_level"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// InventoryItem is an inventory row joined with product and warehouse names.
type InventoryItem struct {
	Inventory
	ProductName   string `db:"product_name" json:"product_name"`
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
}

type StockLog struct {
	ID          int64     `db:"id" json:"id"`
	ProductID   int64     `db:"product_id" json:"product_id"`
	WarehouseID int64     `db:"warehouse_id" json:"warehouse_id"`
	AddedStock  int       `db:"added_stock" json:"added_stock"`
	DateTime    time.Time `db:"date_time" json:"date_time"`
}

// StockLogView is one line of GET /inventory: an inventory row with one of
// its stock logs. Log columns are nil for rows that have no logs.
type StockLogView struct {
	ProductID      int64      `db:"product_id" json:"product_id"`
	ProductName    string     `db:"product_name" json:"product_name"`
	WarehouseID    int64      `db:"warehouse_id" json:"warehouse_id"`
	RemainingStock int        `db:"remaining_stock" json:"remaining_stock"`
	LogID          *int64     `db:"log_id" json:"log_id"`
	AddedStock     *int       `db:"added_stock" json:"added_stock"`
	DateTime       *time.Time `db:"date_time" json:"date_time"`
}

type StockLogEntry struct {
	StockLog
	RemainingStock int `json:"remaining_stock"`
}

type StockDetails struct {
	ProductID      int64           `json:"productId"`
	ProductName    string          `json:"productName"`
	TotalStock     int             `json:"totalStock"`
	RemainingStock int             `json:"remainingStock"`
	StockDetails   []StockLogEntry `json:"stockDetails"`
}

type InventoryMovement struct {
	ID             int64        `db:"id" json:"id"`
	ProductID      int64        `db:"product_id" json:"product_id"`
	WarehouseID    int64        `db:"warehouse_id" json:"warehouse_id"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange int          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type"`
	ReferenceID    *int64       `db:"reference_id" json:"reference_id"`
	Note           string       `db:"note" json:"note"`
	CreatedBy      *int64       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

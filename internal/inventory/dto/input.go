package dto

import "github.com/wa-thone-kyaw/ano-backend/internal/model"

type AddStockInput struct {
	ProductID   int64
	WarehouseID *int64 // nil means the default warehouse
	Quantity    int
	Note        string
}

type ReorderLevelInput struct {
	ProductID    int64
	WarehouseID  *int64
	ReorderLevel int
}

type MoveInput struct {
	ProductID     int64
	WarehouseID   int64
	Delta         int
	MovementType  model.MovementType
	ReferenceType string
	ReferenceID   int64
	Note          string
}

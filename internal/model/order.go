package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "Pending"
	OrderComplete OrderStatus = "Complete"
)

func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderComplete
}

type Order struct {
	ID              int64           `db:"id" json:"id"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	ProductID       int64           `db:"product_id" json:"product_id"`
	WarehouseID     int64           `db:"warehouse_id" json:"warehouse_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	Total           decimal.Decimal `db:"total" json:"total"`
	DeliveryAddress *string         `db:"delivery_address" json:"delivery_address"`
	Note            *string         `db:"note" json:"note"`
	Status          OrderStatus     `db:"status" json:"status"`
	OrderDate       time.Time       `db:"order_date" json:"order_date"`
}

type OrderDetail struct {
	Order
	CustomerName string           `db:"customer_name" json:"customer_name"`
	ProductName  string           `db:"product_name" json:"product_name"`
	Price        *decimal.Decimal `db:"price" json:"price"`
}

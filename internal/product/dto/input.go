package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductInput struct {
	ProductName   string           `json:"product_name" validate:"required,max=255"`
	TypeID        *int64           `json:"type_id" validate:"omitempty,gt=0"`
	ColorID       *int64           `json:"color_id" validate:"omitempty,gt=0"`
	CategoryID    int64            `json:"category_id" validate:"required,gt=0"`
	Size          *string          `json:"size" validate:"omitempty,max=64"`
	MoNumber      *string          `json:"mo_number" validate:"omitempty,max=64"`
	PcsPerBox     *int             `json:"pcs_per_box" validate:"omitempty,gte=0"`
	MicrowaveSafe bool             `json:"microwave_safe"`
	IsActive      *bool            `json:"is_active"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Currency      string           `json:"currency" validate:"omitempty,max=8"`
	// Quantity is an opening stock booked into the default warehouse.
	Quantity int `json:"quantity" validate:"gte=0"`
}

type PriceInput struct {
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency" validate:"omitempty,max=8"`
	EffectiveDate *time.Time      `json:"effective_date"`
}

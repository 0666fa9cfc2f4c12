package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	ProductName   string  `db:"product_name" json:"product_name"`
	TypeID        *int64  `db:"type_id" json:"type_id"`
	ColorID       *int64  `db:"color_id" json:"color_id"`
	CategoryID    int64   `db:"category_id" json:"category_id"`
	Size          *string `db:"size" json:"size"`
	MoNumber      *string `db:"mo_number" json:"mo_number"`
	PcsPerBox     *int    `db:"pcs_per_box" json:"pcs_per_box"`
	MicrowaveSafe bool    `db:"microwave_safe" json:"microwave_safe"`
	IsActive      bool    `db:"is_active" json:"is_active"`
	Description   *string `db:"description" json:"description"`
}

// ProductDetail is a product joined with its lookups, current price,
// stock on hand and photos.
type ProductDetail struct {
	Product
	CategoryName *string          `db:"category_name" json:"category_name"`
	TypeName     *string          `db:"type_name" json:"type_name"`
	ColorName    *string          `db:"color_name" json:"color_name"`
	Price        *decimal.Decimal `db:"price" json:"price"`
	Currency     *string          `db:"currency" json:"currency"`
	Quantity     int              `db:"quantity" json:"quantity"`
	Photos       []string         `db:"-" json:"photos"`
	PhotoURLs    []string         `db:"-" json:"photo_urls"`
	PriceHistory []Price          `db:"-" json:"price_history,omitempty"`
}

type Photo struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Photo     string `db:"photo" json:"photo"`
}

type Price struct {
	ID            int64           `db:"id" json:"id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Currency      string          `db:"currency" json:"currency"`
	EffectiveDate time.Time       `db:"effective_date" json:"effective_date"`
}

// PriceListing is a price row with its product name, used by GET /prices.
type PriceListing struct {
	Price
	ProductName string `db:"product_name" json:"product_name"`
}

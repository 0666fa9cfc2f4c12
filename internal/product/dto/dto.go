package dto

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type ProductFilters struct {
	Name       string `json:"name,omitempty"`
	TypeID     *int64 `json:"type_id,omitempty"`
	ColorID    *int64 `json:"color_id,omitempty"`
	CategoryID *int64 `json:"category_id,omitempty"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// PhotoUpload is one uploaded file. Ext keeps the client's extension.
type PhotoUpload struct {
	Ext  string
	Body io.Reader
}

// PriceRow is a product joined with one of its prices, nil when it has none.
type PriceRow struct {
	ProductID     int64            `db:"product_id"`
	ProductName   string           `db:"product_name"`
	TypeID        *int64           `db:"type_id"`
	ColorID       *int64           `db:"color_id"`
	CategoryID    int64            `db:"category_id"`
	Size          *string          `db:"size"`
	MoNumber      *string          `db:"mo_number"`
	PriceID       *int64           `db:"price_id"`
	Price         *decimal.Decimal `db:"price"`
	Currency      *string          `db:"currency"`
	EffectiveDate *time.Time       `db:"effective_date"`
}

// Document is the search index representation of a product.
type Document struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	TypeID      *int64    `json:"type_id,omitempty"`
	ColorID     *int64    `json:"color_id,omitempty"`
	CategoryID  int64     `json:"category_id"`
	Size        *string   `json:"size,omitempty"`
	MoNumber    *string   `json:"mo_number,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

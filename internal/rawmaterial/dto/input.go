package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RawMaterialInput struct {
	MaterialName string
	Source       string
	ImportDate   *time.Time
	Quantity     decimal.Decimal
	Importer     *string
	Unit         string
}

type UsageInput struct {
	RawMaterialID int64
	UsedQuantity  decimal.Decimal
	UsageDate     time.Time
	Purpose       *string
}

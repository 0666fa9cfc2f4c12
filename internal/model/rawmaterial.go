package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RawMaterial struct {
	ID           int64           `db:"id" json:"id"`
	MaterialName string          `db:"material_name" json:"material_name"`
	Source       string          `db:"source" json:"source"`
	ImportDate   *time.Time      `db:"import_date" json:"import_date"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	Importer     *string         `db:"importer" json:"importer"`
	Unit         string          `db:"unit" json:"unit"`
}

type RawMaterialUsage struct {
	ID            int64           `db:"id" json:"id"`
	RawMaterialID int64           `db:"raw_material_id" json:"raw_material_id"`
	UsedQuantity  decimal.Decimal `db:"used_quantity" json:"used_quantity"`
	UsageDate     time.Time       `db:"usage_date" json:"usage_date"`
	Purpose       *string         `db:"purpose" json:"purpose"`
}

// UsageView is a usage joined with its material.
type UsageView struct {
	RawMaterialUsage
	MaterialName string `db:"material_name" json:"material_name"`
	Unit         string `db:"unit" json:"unit"`
}

type UsageDetailEntry struct {
	RawMaterialUsage
	CumulativeUsed decimal.Decimal `json:"cumulative_used"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
}

type UsageDetails struct {
	RawMaterialID     int64              `json:"rawMaterialId"`
	RawMaterialName   string             `json:"rawMaterialName"`
	Unit              string             `json:"unit"`
	RemainingQuantity decimal.Decimal    `json:"remainingQuantity"`
	TotalUsed         decimal.Decimal    `json:"totalUsed"`
	UsageDetails      []UsageDetailEntry `json:"usageDetails"`
}

type RawMaterialMovement struct {
	ID             int64           `db:"id" json:"id"`
	RawMaterialID  int64           `db:"raw_material_id" json:"raw_material_id"`
	MovementType   MovementType    `db:"movement_type" json:"movement_type"`
	QuantityChange decimal.Decimal `db:"quantity_change" json:"quantity_change"`
	QuantityBefore decimal.Decimal `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  decimal.Decimal `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string         `db:"reference_type" json:"reference_type"`
	ReferenceID    *int64          `db:"reference_id" json:"reference_id"`
	Note           string          `db:"note" json:"note"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
)

const exportSheet = "Inventory"

var exportHeader = []interface{}{
	"product_id",
	"product_name",
	"warehouse_id",
	"warehouse_name",
	"quantity",
	"reorder_level",
	"low_stock",
	"updated_at",
}

// ExportInventory writes every inventory row as an XLSX workbook.
func (uc *inventoryUseCase) ExportInventory(ctx context.Context, w io.Writer) error {
	items, _, err := uc.repo.FindAll(ctx, &dto.InventoryFilters{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "H1", bold); err != nil {
		return err
	}

	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			it.ProductID,
			it.ProductName,
			it.WarehouseID,
			it.WarehouseName,
			it.Quantity,
			it.ReorderLevel,
			it.ReorderLevel > 0 && it.Quantity <= it.ReorderLevel,
			it.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}

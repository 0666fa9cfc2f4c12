package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindProductName(ctx context.Context, productID int64) (string, bool, error) {
	var name string
	err := database.Conn(ctx, r.DB).GetContext(ctx, &name, `SELECT product_name FROM product WHERE id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

func (r *PGRepository) WarehouseExists(ctx context.Context, warehouseID int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM warehouse WHERE id = $1)`, warehouseID)
	return exists, err
}

func (r *PGRepository) GetByProduct(ctx context.Context, productID, warehouseID int64) (*model.Inventory, error) {
	var inv model.Inventory
	query := `SELECT * FROM inventory WHERE product_id = $1 AND warehouse_id = $2`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &inv, query, productID, warehouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) SumQuantity(ctx context.Context, productID int64) (int, error) {
	var total int
	err := database.Conn(ctx, r.DB).GetContext(ctx, &total, `SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE product_id = $1`, productID)
	return total, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != nil {
		conditions = append(conditions, "i.product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.WarehouseID != nil {
		conditions = append(conditions, "i.warehouse_id = :warehouse_id")
		args["warehouse_id"] = *f.WarehouseID
	}
	if f.LowStock {
		conditions = append(conditions, "i.reorder_level > 0 AND i.quantity <= i.reorder_level")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)
	countQuery := "SELECT count(*) FROM inventory i" + whereClause
	if err := database.NamedGet(ctx, conn, &count, countQuery, args); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT i.*, p.product_name, w.warehouse_name
        FROM inventory i
        JOIN product p ON p.id = i.product_id
        JOIN warehouse w ON w.id = i.warehouse_id` + whereClause + `
        ORDER BY i.updated_at DESC, i.id DESC`
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := database.NamedSelect(ctx, conn, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) EnsureRow(ctx context.Context, productID, warehouseID int64) error {
	query := `
        INSERT INTO inventory (product_id, warehouse_id, quantity, updated_at)
        VALUES ($1, $2, 0, NOW())
        ON CONFLICT (product_id, warehouse_id) DO NOTHING
    `
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, productID, warehouseID)
	return err
}

func (r *PGRepository) SetReorderLevel(ctx context.Context, productID, warehouseID int64, level int) (*model.Inventory, error) {
	var inv model.Inventory
	query := `
        INSERT INTO inventory (product_id, warehouse_id, quantity, reorder_level, updated_at)
        VALUES ($1, $2, 0, $3, NOW())
        ON CONFLICT (product_id, warehouse_id)
        DO UPDATE SET reorder_level = EXCLUDED.reorder_level, updated_at = EXCLUDED.updated_at
        RETURNING *
    `
	err := database.Conn(ctx, r.DB).GetContext(ctx, &inv, query, productID, warehouseID, level)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) ApplyDelta(ctx context.Context, productID, warehouseID int64, delta int) (int, bool, error) {
	var after int
	query := `
        UPDATE inventory
        SET quantity = quantity + $1, updated_at = NOW()
        WHERE product_id = $2 AND warehouse_id = $3 AND quantity + $1 >= 0
        RETURNING quantity
    `
	err := database.Conn(ctx, r.DB).GetContext(ctx, &after, query, delta, productID, warehouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return after, true, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            product_id, warehouse_id, movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, note, created_by, created_at
        )
        VALUES (
            :product_id, :warehouse_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :note, :created_by, :created_at
        )
        RETURNING id
    `
	return database.NamedGet(ctx, database.Conn(ctx, r.DB), &m.ID, query, m)
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != nil {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.WarehouseID != nil {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = *f.WarehouseID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)
	countQuery := "SELECT count(*) FROM inventory_movements" + whereClause
	if err := database.NamedGet(ctx, conn, &count, countQuery, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := database.NamedSelect(ctx, conn, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) CreateStockLog(ctx context.Context, l *model.StockLog) error {
	query := `
        INSERT INTO stock_logs (product_id, warehouse_id, added_stock, date_time)
        VALUES (:product_id, :warehouse_id, :added_stock, :date_time)
        RETURNING id
    `
	return database.NamedGet(ctx, database.Conn(ctx, r.DB), &l.ID, query, l)
}

// GetStockLog locks the row for the rest of the transaction.
func (r *PGRepository) GetStockLog(ctx context.Context, id int64) (*model.StockLog, error) {
	var l model.StockLog
	err := database.Conn(ctx, r.DB).GetContext(ctx, &l, `SELECT * FROM stock_logs WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) UpdateStockLog(ctx context.Context, l *model.StockLog) error {
	query := `UPDATE stock_logs SET added_stock = :added_stock, date_time = :date_time WHERE id = :id`
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) DeleteStockLog(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM stock_logs WHERE id = $1`, id)
	return err
}

func (r *PGRepository) ListStockLogs(ctx context.Context, productID int64) ([]model.StockLog, error) {
	logs := []model.StockLog{}
	query := `SELECT * FROM stock_logs WHERE product_id = $1 ORDER BY date_time DESC, id DESC`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &logs, query, productID)
	return logs, err
}

func (r *PGRepository) ListInventoryLogs(ctx context.Context) ([]model.StockLogView, error) {
	rows := []model.StockLogView{}
	query := `
        SELECT p.id AS product_id, p.product_name, i.warehouse_id, i.quantity AS remaining_stock,
               s.id AS log_id, s.added_stock, s.date_time
        FROM inventory i
        JOIN product p ON p.id = i.product_id
        LEFT JOIN stock_logs s ON s.product_id = i.product_id AND s.warehouse_id = i.warehouse_id
        ORDER BY s.date_time DESC NULLS LAST, s.id DESC
    `
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &rows, query)
	return rows, err
}

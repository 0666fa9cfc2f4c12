package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const latestPriceJoin = `
        LEFT JOIN LATERAL (
            SELECT pr.price FROM price pr
            WHERE pr.product_id = o.product_id
            ORDER BY pr.effective_date DESC, pr.id DESC
            LIMIT 1
        ) lp ON TRUE`

func (r *PGRepository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID)
	return exists, err
}

func (r *PGRepository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM product WHERE id = $1)`, productID)
	return exists, err
}

func (r *PGRepository) LatestUnitPrice(ctx context.Context, productID int64) (decimal.Decimal, bool, error) {
	var price decimal.Decimal
	query := `SELECT price FROM price WHERE product_id = $1 ORDER BY effective_date DESC, id DESC LIMIT 1`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &price, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return price, true, nil
}

func (r *PGRepository) ExistsForPair(ctx context.Context, customerID, productID, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE customer_id = $1 AND product_id = $2 AND id <> $3)`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, query, customerID, productID, excludeID)
	return exists, err
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (customer_id, product_id, warehouse_id, quantity, total, delivery_address, note, status, order_date)
        VALUES (:customer_id, :product_id, :warehouse_id, :quantity, :total, :delivery_address, :note, :status, :order_date)
        RETURNING id
    `
	err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &o.ID, query, o)
	return mapWriteError(err)
}

func (r *PGRepository) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := database.Conn(ctx, r.DB).GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET customer_id = :customer_id, product_id = :product_id, quantity = :quantity, total = :total,
            delivery_address = :delivery_address, note = :note
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, o)
	return mapWriteError(err)
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.OrderDetail, error) {
	var o model.OrderDetail
	query := `
        SELECT o.*, c.name AS customer_name, p.product_name, lp.price
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        JOIN product p ON p.id = o.product_id` + latestPriceJoin + `
        WHERE o.id = $1`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &o, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.OrderDetail, int, error) {
	orders := []model.OrderDetail{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != nil {
		conditions = append(conditions, "o.customer_id = :customer_id")
		args["customer_id"] = *f.CustomerID
	}
	if f.ProductID != nil {
		conditions = append(conditions, "o.product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.Status != "" {
		conditions = append(conditions, "o.status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)
	if err := database.NamedGet(ctx, conn, &count, "SELECT count(*) FROM orders o"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT o.*, c.name AS customer_name, p.product_name, lp.price
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        JOIN product p ON p.id = o.product_id` + latestPriceJoin + whereClause + `
        ORDER BY o.order_date DESC, o.id DESC`
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := database.NamedSelect(ctx, conn, &orders, query, args); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return apperror.Wrap(apperror.ErrDuplicateOrder, err)
	}
	if database.IsForeignKeyViolation(err) {
		return apperror.Validation(fmt.Sprintf("Referenced record does not exist (%s)", database.ConstraintName(err)))
	}
	return err
}

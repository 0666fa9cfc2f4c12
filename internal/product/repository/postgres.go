package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// detailQuery selects products with their lookups, current price and the
// quantity on hand summed over warehouses.
const detailQuery = `
	SELECT p.id, p.product_name, p.type_id, p.color_id, p.category_id, p.size, p.mo_number,
	       p.pcs_per_box, p.microwave_safe, p.is_active, p.description, p.created_at, p.updated_at,
	       c.category_name, t.type_name, co.color_name, lp.price, lp.currency,
	       COALESCE(inv.quantity, 0) AS quantity
	FROM product p
	LEFT JOIN category c ON c.id = p.category_id
	LEFT JOIN type t ON t.id = p.type_id
	LEFT JOIN color co ON co.id = p.color_id
	LEFT JOIN LATERAL (
		SELECT price, currency FROM price
		WHERE product_id = p.id
		ORDER BY effective_date DESC, id DESC LIMIT 1
	) lp ON TRUE
	LEFT JOIN LATERAL (
		SELECT SUM(quantity)::int AS quantity FROM inventory WHERE product_id = p.id
	) inv ON TRUE`

func (r *PGRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM category WHERE id = $1)`, id)
	return exists, err
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO product (
			product_name, type_id, color_id, category_id, size, mo_number,
			pcs_per_box, microwave_safe, is_active, description, created_at, updated_at
		)
		VALUES (
			:product_name, :type_id, :color_id, :category_id, :size, :mo_number,
			:pcs_per_box, :microwave_safe, :is_active, :description, :created_at, :updated_at
		)
		RETURNING id`
	if err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &p.ID, query, p); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.ProductDetail, error) {
	var p model.ProductDetail
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p, detailQuery+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductDetail, error) {
	products := []model.ProductDetail{}
	if len(ids) == 0 {
		return products, nil
	}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &products, detailQuery+` WHERE p.id = ANY($1)`, ids)
	return products, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.ProductDetail, int, error) {
	products := []model.ProductDetail{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Name != "" {
		conditions = append(conditions, "p.product_name ILIKE :name")
		args["name"] = "%" + f.Name + "%"
	}
	if f.TypeID != nil {
		conditions = append(conditions, "p.type_id = :type_id")
		args["type_id"] = *f.TypeID
	}
	if f.ColorID != nil {
		conditions = append(conditions, "p.color_id = :color_id")
		args["color_id"] = *f.ColorID
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "p.category_id = :category_id")
		args["category_id"] = *f.CategoryID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := database.Conn(ctx, r.DB)
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM product p"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := detailQuery + whereClause + " ORDER BY p.created_at DESC, p.id DESC"
	if f.Limit > 0 {
		offset := (f.Page - 1) * f.Limit
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, offset)
	}
	if err := database.NamedSelect(ctx, q, &products, query, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) ListWithPrices(ctx context.Context) ([]dto.PriceRow, error) {
	rows := []dto.PriceRow{}
	query := `
		SELECT p.id AS product_id, p.product_name, p.type_id, p.color_id, p.category_id, p.size, p.mo_number,
		       pr.id AS price_id, pr.price, pr.currency, pr.effective_date
		FROM product p
		LEFT JOIN price pr ON pr.product_id = p.id
		ORDER BY p.id DESC, pr.effective_date DESC, pr.id DESC`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &rows, query)
	return rows, err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	query := `
		UPDATE product
		SET product_name = :product_name,
		    type_id = :type_id,
		    color_id = :color_id,
		    category_id = :category_id,
		    size = :size,
		    mo_number = :mo_number,
		    pcs_per_box = :pcs_per_box,
		    microwave_safe = :microwave_safe,
		    is_active = :is_active,
		    description = :description,
		    updated_at = :updated_at
		WHERE id = :id
		RETURNING created_at`
	err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &p.CreatedAt, query, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, mapWriteError(err)
	}
	return true, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil && database.IsForeignKeyViolation(err) {
		return apperror.InUse("Product cannot be deleted; it is referenced by one or more orders.")
	}
	return err
}

func (r *PGRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM orders WHERE product_id = $1)`, id)
	return exists, err
}

func (r *PGRepository) ListPhotos(ctx context.Context, productID int64) ([]model.Photo, error) {
	photos := []model.Photo{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &photos,
		`SELECT id, product_id, photo FROM photo WHERE product_id = $1 ORDER BY id`, productID)
	return photos, err
}

func (r *PGRepository) PhotosByProduct(ctx context.Context, productIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var photos []model.Photo
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &photos,
		`SELECT id, product_id, photo FROM photo WHERE product_id = ANY($1) ORDER BY id`, productIDs)
	if err != nil {
		return nil, err
	}
	for _, ph := range photos {
		out[ph.ProductID] = append(out[ph.ProductID], ph.Photo)
	}
	return out, nil
}

func (r *PGRepository) ReplacePhotos(ctx context.Context, productID int64, names []string) error {
	q := database.Conn(ctx, r.DB)
	if _, err := q.ExecContext(ctx, `DELETE FROM photo WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := q.ExecContext(ctx, `INSERT INTO photo (product_id, photo) VALUES ($1, $2)`, productID, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) AddPrice(ctx context.Context, p *model.Price) error {
	query := `
		INSERT INTO price (product_id, price, currency, effective_date)
		VALUES (:product_id, :price, :currency, :effective_date)
		RETURNING id`
	if err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &p.ID, query, p); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *PGRepository) LatestPrice(ctx context.Context, productID int64) (*model.Price, error) {
	var p model.Price
	query := `
		SELECT id, product_id, price, currency, effective_date FROM price
		WHERE product_id = $1
		ORDER BY effective_date DESC, id DESC LIMIT 1`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListPrices(ctx context.Context, productID int64) ([]model.Price, error) {
	prices := []model.Price{}
	query := `
		SELECT id, product_id, price, currency, effective_date FROM price
		WHERE product_id = $1
		ORDER BY effective_date DESC, id DESC`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &prices, query, productID)
	return prices, err
}

func (r *PGRepository) ListAllPrices(ctx context.Context) ([]model.PriceListing, error) {
	prices := []model.PriceListing{}
	query := `
		SELECT pr.id, pr.product_id, pr.price, pr.currency, pr.effective_date, p.product_name
		FROM price pr
		JOIN product p ON p.id = pr.product_id
		ORDER BY pr.effective_date DESC, pr.id DESC`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &prices, query)
	return prices, err
}

func mapWriteError(err error) error {
	switch {
	case database.IsForeignKeyViolation(err):
		return apperror.Validation("Invalid reference: " + database.ConstraintName(err))
	case database.IsCheckViolation(err):
		return apperror.Validation("Invalid product data")
	}
	return err
}

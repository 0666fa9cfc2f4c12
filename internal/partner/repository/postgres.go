package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

const customerInUse = "Customer cannot be deleted; it has one or more orders."

type CustomerRepository struct {
	DB *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]model.Customer, error) {
	customers := []model.Customer{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &customers,
		`SELECT id, name, email, phone, address, business_name, created_at FROM customers ORDER BY id DESC`)
	return customers, err
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := database.Conn(ctx, r.DB).GetContext(ctx, &c,
		`SELECT id, name, email, phone, address, business_name, created_at FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, address, business_name)
		VALUES (:name, :email, :phone, :address, :business_name)
		RETURNING id, created_at`
	bound, args, err := sqlx.Named(query, c)
	if err != nil {
		return err
	}
	q := database.Conn(ctx, r.DB)
	return q.QueryRowxContext(ctx, q.Rebind(bound), args...).Scan(&c.ID, &c.CreatedAt)
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) (bool, error) {
	query := `
		UPDATE customers
		SET name = :name, email = :email, phone = :phone, address = :address, business_name = :business_name
		WHERE id = :id
		RETURNING created_at`
	err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &c.CreatedAt, query, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, apperror.InUse(customerInUse)
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *CustomerRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM orders WHERE customer_id = $1)`, id)
	return exists, err
}

type SupplierRepository struct {
	DB *sqlx.DB
}

func NewSupplierRepository(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{DB: db}
}

const supplierColumns = `id, name, address, contact_person, phone, email, source, join_date`

func (r *SupplierRepository) FindAll(ctx context.Context) ([]model.Supplier, error) {
	suppliers := []model.Supplier{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &suppliers,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY id DESC`)
	return suppliers, err
}

func (r *SupplierRepository) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	var s model.Supplier
	err := database.Conn(ctx, r.DB).GetContext(ctx, &s, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepository) Create(ctx context.Context, s *model.Supplier) error {
	query := `
		INSERT INTO suppliers (name, address, contact_person, phone, email, source, join_date)
		VALUES (:name, :address, :contact_person, :phone, :email, :source, :join_date)
		RETURNING id`
	return database.NamedGet(ctx, database.Conn(ctx, r.DB), &s.ID, query, s)
}

func (r *SupplierRepository) Update(ctx context.Context, s *model.Supplier) (bool, error) {
	query := `
		UPDATE suppliers
		SET name = :name, address = :address, contact_person = :contact_person, phone = :phone,
		    email = :email, source = :source, join_date = :join_date
		WHERE id = :id
		RETURNING id`
	var id int64
	err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &id, query, s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, m *model.RawMaterial) error {
	query := `
        INSERT INTO raw_material (material_name, source, import_date, quantity, importer, unit)
        VALUES (:material_name, :source, :import_date, :quantity, :importer, :unit)
        RETURNING id
    `
	return database.NamedGet(ctx, database.Conn(ctx, r.DB), &m.ID, query, m)
}

func (r *PGRepository) get(ctx context.Context, query string, id int64) (*model.RawMaterial, error) {
	var m model.RawMaterial
	err := database.Conn(ctx, r.DB).GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id int64) (*model.RawMaterial, error) {
	return r.get(ctx, `SELECT * FROM raw_material WHERE id = $1`, id)
}

func (r *PGRepository) GetForUpdate(ctx context.Context, id int64) (*model.RawMaterial, error) {
	return r.get(ctx, `SELECT * FROM raw_material WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.RawMaterial, error) {
	materials := []model.RawMaterial{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &materials, `SELECT * FROM raw_material ORDER BY id DESC`)
	return materials, err
}

func (r *PGRepository) Update(ctx context.Context, m *model.RawMaterial) error {
	query := `
        UPDATE raw_material
        SET material_name = :material_name, source = :source, import_date = :import_date,
            quantity = :quantity, importer = :importer, unit = :unit
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM raw_material WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return apperror.InUse("Raw material is used by usage records")
	}
	return err
}

func (r *PGRepository) HasUsages(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM raw_material_usage WHERE raw_material_id = $1)`, id)
	return exists, err
}

func (r *PGRepository) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, bool, error) {
	var after decimal.Decimal
	query := `
        UPDATE raw_material
        SET quantity = quantity + $1
        WHERE id = $2 AND quantity + $1 >= 0
        RETURNING quantity
    `
	err := database.Conn(ctx, r.DB).GetContext(ctx, &after, query, delta, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return after, true, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.RawMaterialMovement) error {
	query := `
        INSERT INTO raw_material_movements (
            raw_material_id, movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, note, created_at
        )
        VALUES (
            :raw_material_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :note, :created_at
        )
        RETURNING id
    `
	return database.NamedGet(ctx, database.Conn(ctx, r.DB), &m.ID, query, m)
}

func (r *PGRepository) ListMovements(ctx context.Context, materialID int64) ([]model.RawMaterialMovement, error) {
	movements := []model.RawMaterialMovement{}
	query := `SELECT * FROM raw_material_movements WHERE raw_material_id = $1 ORDER BY created_at DESC, id DESC`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &movements, query, materialID)
	return movements, err
}

func (r *PGRepository) CreateUsage(ctx context.Context, u *model.RawMaterialUsage) error {
	query := `
        INSERT INTO raw_material_usage (raw_material_id, used_quantity, usage_date, purpose)
        VALUES (:raw_material_id, :used_quantity, :usage_date, :purpose)
        RETURNING id
    `
	return database.NamedGet(ctx, database.Conn(ctx, r.DB), &u.ID, query, u)
}

func (r *PGRepository) GetUsageForUpdate(ctx context.Context, id int64) (*model.RawMaterialUsage, error) {
	var u model.RawMaterialUsage
	err := database.Conn(ctx, r.DB).GetContext(ctx, &u, `SELECT * FROM raw_material_usage WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) UpdateUsage(ctx context.Context, u *model.RawMaterialUsage) error {
	query := `
        UPDATE raw_material_usage
        SET raw_material_id = :raw_material_id, used_quantity = :used_quantity,
            usage_date = :usage_date, purpose = :purpose
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, u)
	return err
}

func (r *PGRepository) DeleteUsage(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM raw_material_usage WHERE id = $1`, id)
	return err
}

func (r *PGRepository) ListUsages(ctx context.Context) ([]model.UsageView, error) {
	usages := []model.UsageView{}
	query := `
        SELECT u.*, m.material_name, m.unit
        FROM raw_material_usage u
        JOIN raw_material m ON m.id = u.raw_material_id
        ORDER BY u.usage_date DESC, u.id DESC
    `
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &usages, query)
	return usages, err
}

func (r *PGRepository) ListUsagesByMaterial(ctx context.Context, materialID int64) ([]model.RawMaterialUsage, error) {
	usages := []model.RawMaterialUsage{}
	query := `SELECT * FROM raw_material_usage WHERE raw_material_id = $1 ORDER BY usage_date DESC, id DESC`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &usages, query, materialID)
	return usages, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/catalog/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
)

// PGRepository stores one catalog table. Queries are built once from the
// table description.
type PGRepository[T any] struct {
	DB    *sqlx.DB
	table dto.Table

	selectAll  string
	selectByID string
	insert     string
	update     string
	delete     string
	inUse      string
}

func NewPGRepository[T any](db *sqlx.DB, table dto.Table) *PGRepository[T] {
	cols := "id, " + strings.Join(table.Columns, ", ")
	named := make([]string, len(table.Columns))
	sets := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		named[i] = ":" + c
		sets[i] = c + " = :" + c
	}

	return &PGRepository[T]{
		DB:         db,
		table:      table,
		selectAll:  fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC", cols, table.Name),
		selectByID: fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", cols, table.Name),
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			table.Name, strings.Join(table.Columns, ", "), strings.Join(named, ", ")),
		update: fmt.Sprintf("UPDATE %s SET %s WHERE id = :id RETURNING id",
			table.Name, strings.Join(sets, ", ")),
		delete: fmt.Sprintf("DELETE FROM %s WHERE id = $1", table.Name),
		inUse: fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
			table.Referrer, table.Reference),
	}
}

func (r *PGRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := database.Conn(ctx, r.DB).SelectContext(ctx, &items, r.selectAll); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var item T
	err := database.Conn(ctx, r.DB).GetContext(ctx, &item, r.selectByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository[T]) Create(ctx context.Context, entity *T) error {
	var id int64
	if err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &id, r.insert, entity); err != nil {
		return r.mapWriteError(err)
	}
	if rec, ok := any(entity).(interface{ SetID(int64) }); ok {
		rec.SetID(id)
	}
	return nil
}

func (r *PGRepository[T]) Update(ctx context.Context, entity *T) (bool, error) {
	var id int64
	err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &id, r.update, entity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, r.mapWriteError(err)
	}
	return true, nil
}

func (r *PGRepository[T]) Delete(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, r.delete, id)
	if err != nil && database.IsForeignKeyViolation(err) {
		return apperror.InUse(r.table.InUseMsg)
	}
	return err
}

func (r *PGRepository[T]) InUse(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &used, r.inUse, id)
	return used, err
}

func (r *PGRepository[T]) mapWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperror.Wrap(apperror.ErrAlreadyExists, err)
	case database.IsCheckViolation(err):
		return apperror.Validation("Invalid " + strings.ToLower(r.table.Label) + " data")
	}
	return err
}

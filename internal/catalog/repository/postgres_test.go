package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/catalog/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

func newRepo[T any](t *testing.T, table dto.Table) (*PGRepository[T], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository[T](sqlx.NewDb(db, "pgx"), table), mock
}

func TestFindAllOrdersNewestFirst(t *testing.T) {
	repo, mock := newRepo[model.Color](t, dto.Colors)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, color_name, color_code FROM color ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "color_name", "color_code"}).
			AddRow(2, "Red", "#ff0000").
			AddRow(1, "White", nil))

	colors, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, colors, 2)
	assert.Equal(t, "Red", colors[0].ColorName)
	assert.Nil(t, colors[1].ColorCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSetsID(t *testing.T) {
	repo, mock := newRepo[model.Category](t, dto.Categories)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO category (category_name) VALUES ($1) RETURNING id")).
		WithArgs("Plates").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	c := &model.Category{CategoryName: "Plates"}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(7), c.ID)
}

func TestCreateDuplicate(t *testing.T) {
	repo, mock := newRepo[model.Type](t, dto.Types)
	mock.ExpectQuery("INSERT INTO type").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.Type{TypeName: "Bowl"})
	assert.True(t, errors.Is(err, apperror.ErrAlreadyExists))
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock := newRepo[model.Warehouse](t, dto.Warehouses)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE warehouse SET warehouse_name = $1, warehouse_location = $2 WHERE id = $3 RETURNING id")).
		WithArgs("North", nil, int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ok, err := repo.Update(context.Background(), &model.Warehouse{ID: 9, WarehouseName: "North"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInUseChecksReferrer(t *testing.T) {
	repo, mock := newRepo[model.Warehouse](t, dto.Warehouses)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM inventory WHERE warehouse_id = $1)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := repo.InUse(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestDeleteForeignKeyViolation(t *testing.T) {
	repo, mock := newRepo[model.Category](t, dto.Categories)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM category WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInUse))
	assert.Equal(t, dto.Categories.InUseMsg, err.Error())
}

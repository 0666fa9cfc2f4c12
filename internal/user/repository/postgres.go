package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

const userColumns = `id, name, email, password, role, status, promote, last_login`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id DESC`)
	return users, err
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	if err := database.Conn(ctx, r.DB).GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password, role, status, promote)
		VALUES (:name, :email, :password, :role, :status, :promote)
		RETURNING id`
	if err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &u.ID, query, u); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *PGRepository) Update(ctx context.Context, u *model.User) (bool, error) {
	query := `
		UPDATE users
		SET name = :name, email = :email, role = :role, status = :status, promote = :promote
		WHERE id = :id
		RETURNING last_login`
	if err := database.NamedGet(ctx, database.Conn(ctx, r.DB), &u.LastLogin, query, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, mapWriteError(err)
	}
	return true, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := database.Conn(ctx, r.DB).GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

func (r *PGRepository) SetPassword(ctx context.Context, id int64, hash string) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}

func mapWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperror.AlreadyExists("User already exists")
	case database.IsCheckViolation(err):
		return apperror.Validation("Invalid user status")
	default:
		return err
	}
}

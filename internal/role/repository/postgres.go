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

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Role, error) {
	roles := []model.Role{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &roles, `SELECT id, name FROM roles ORDER BY id`)
	return roles, err
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Role, error) {
	var role model.Role
	err := database.Conn(ctx, r.DB).GetContext(ctx, &role, `SELECT id, name FROM roles WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *PGRepository) Create(ctx context.Context, role *model.Role) error {
	err := database.Conn(ctx, r.DB).GetContext(ctx, &role.ID,
		`INSERT INTO roles (name) VALUES ($1) RETURNING id`, role.Name)
	if database.IsUniqueViolation(err) {
		return apperror.AlreadyExists("Role already exists")
	}
	return err
}

func (r *PGRepository) Update(ctx context.Context, role *model.Role) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE roles SET name = $1 WHERE id = $2`, role.Name, role.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return false, apperror.AlreadyExists("Role already exists")
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) RenameHolders(ctx context.Context, oldName, newName string) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE role = $2`, newName, oldName)
	return err
}

func (r *PGRepository) HasHolders(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`, name)
	return exists, err
}

func (r *PGRepository) FindAllPermissions(ctx context.Context) ([]model.Permission, error) {
	perms := []model.Permission{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &perms, `SELECT id, name FROM permissions ORDER BY id`)
	return perms, err
}

func (r *PGRepository) CreatePermission(ctx context.Context, p *model.Permission) error {
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p.ID,
		`INSERT INTO permissions (name) VALUES ($1) RETURNING id`, p.Name)
	if database.IsUniqueViolation(err) {
		return apperror.AlreadyExists("Permission already exists")
	}
	return err
}

func (r *PGRepository) PermissionsByRole(ctx context.Context, roleID int64) ([]model.Permission, error) {
	perms := []model.Permission{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &perms, `
		SELECT p.id, p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.id`, roleID)
	return perms, err
}

// AssignPermissions links each permission to the role; pairs that already
// exist are left alone.
func (r *PGRepository) AssignPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	q := database.Conn(ctx, r.DB)
	for _, pid := range permissionIDs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			VALUES ($1, $2)
			ON CONFLICT (role_id, permission_id) DO NOTHING`, roleID, pid)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperror.Validation("Invalid permission id")
			}
			return err
		}
	}
	return nil
}

func (r *PGRepository) UnassignPermission(ctx context.Context, roleID, permissionID int64) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) RolePermissionRows(ctx context.Context) ([]model.RolePermissionRow, error) {
	rows := []model.RolePermissionRow{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &rows, `
		SELECT r.id AS role_id, r.name AS role_name, p.id AS permission_id, p.name AS permission_name
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		ORDER BY r.id, p.id`)
	return rows, err
}

func (r *PGRepository) RoleHasPermission(ctx context.Context, role, permission string) (bool, error) {
	var ok bool
	err := database.Conn(ctx, r.DB).GetContext(ctx, &ok, `
		SELECT EXISTS (
			SELECT 1
			FROM roles r
			JOIN role_permissions rp ON rp.role_id = r.id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE r.name = $1 AND p.name = $2
		)`, role, permission)
	return ok, err
}

package role

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id int64) (*model.Role, error)
	Create(ctx context.Context, r *model.Role) error
	Update(ctx context.Context, r *model.Role) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// RenameHolders moves users holding role oldName to newName.
	RenameHolders(ctx context.Context, oldName, newName string) error
	HasHolders(ctx context.Context, name string) (bool, error)

	FindAllPermissions(ctx context.Context) ([]model.Permission, error)
	CreatePermission(ctx context.Context, p *model.Permission) error
	PermissionsByRole(ctx context.Context, roleID int64) ([]model.Permission, error)
	AssignPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	UnassignPermission(ctx context.Context, roleID, permissionID int64) (bool, error)
	RolePermissionRows(ctx context.Context) ([]model.RolePermissionRow, error)
	RoleHasPermission(ctx context.Context, role, permission string) (bool, error)
}

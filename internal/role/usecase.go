package role

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/role/dto"
)

type UseCase interface {
	ListRoles(ctx context.Context) ([]model.Role, error)
	CreateRole(ctx context.Context, input *dto.NameInput) (*model.Role, error)
	UpdateRole(ctx context.Context, id int64, input *dto.NameInput) (*model.Role, error)
	DeleteRole(ctx context.Context, id int64) error

	ListPermissions(ctx context.Context) ([]model.Permission, error)
	CreatePermission(ctx context.Context, input *dto.NameInput) (*model.Permission, error)
	RolePermissions(ctx context.Context, roleID int64) ([]model.Permission, error)
	AssignPermissions(ctx context.Context, roleID int64, input *dto.AssignInput) error
	UnassignPermission(ctx context.Context, roleID, permissionID int64) error
	RolesWithPermissions(ctx context.Context) ([]model.RoleWithPermissions, error)

	// RoleHasPermission backs the permissions authorization mode.
	RoleHasPermission(ctx context.Context, role, permission string) (bool, error)
}

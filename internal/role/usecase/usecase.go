package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/role"
	"github.com/wa-thone-kyaw/ano-backend/internal/role/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/rowgroup"
)

const roleInUse = "Role cannot be deleted; it is assigned to one or more users."

type roleUseCase struct {
	repo   role.Repository
	tx     database.TxManager
	logger logger.ZapLogger
}

func NewRoleUseCase(repo role.Repository, tx database.TxManager, log logger.ZapLogger) role.UseCase {
	return &roleUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *roleUseCase) ListRoles(ctx context.Context) ([]model.Role, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *roleUseCase) CreateRole(ctx context.Context, input *dto.NameInput) (*model.Role, error) {
	r := &model.Role{Name: strings.TrimSpace(input.Name)}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	uc.logger.Info("role created", zap.Int64("role_id", r.ID), zap.String("name", r.Name))
	return r, nil
}

// UpdateRole renames a role. Users reference roles by name, so their role
// column follows the rename in the same transaction.
func (uc *roleUseCase) UpdateRole(ctx context.Context, id int64, input *dto.NameInput) (*model.Role, error) {
	r := &model.Role{ID: id, Name: strings.TrimSpace(input.Name)}
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		old, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return apperror.NotFound("Role")
		}
		if _, err := uc.repo.Update(ctx, r); err != nil {
			return err
		}
		if old.Name == r.Name {
			return nil
		}
		return uc.repo.RenameHolders(ctx, old.Name, r.Name)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *roleUseCase) DeleteRole(ctx context.Context, id int64) error {
	r, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return apperror.NotFound("Role")
	}
	held, err := uc.repo.HasHolders(ctx, r.Name)
	if err != nil {
		return err
	}
	if held {
		return apperror.InUse(roleInUse)
	}
	if _, err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("role deleted", zap.Int64("role_id", id), zap.String("name", r.Name))
	return nil
}

func (uc *roleUseCase) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return uc.repo.FindAllPermissions(ctx)
}

func (uc *roleUseCase) CreatePermission(ctx context.Context, input *dto.NameInput) (*model.Permission, error) {
	p := &model.Permission{Name: strings.TrimSpace(input.Name)}
	if err := uc.repo.CreatePermission(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *roleUseCase) RolePermissions(ctx context.Context, roleID int64) ([]model.Permission, error) {
	if err := uc.requireRole(ctx, roleID); err != nil {
		return nil, err
	}
	return uc.repo.PermissionsByRole(ctx, roleID)
}

func (uc *roleUseCase) AssignPermissions(ctx context.Context, roleID int64, input *dto.AssignInput) error {
	return uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.requireRole(ctx, roleID); err != nil {
			return err
		}
		return uc.repo.AssignPermissions(ctx, roleID, input.PermissionIDs)
	})
}

func (uc *roleUseCase) UnassignPermission(ctx context.Context, roleID, permissionID int64) error {
	ok, err := uc.repo.UnassignPermission(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Role permission")
	}
	return nil
}

func (uc *roleUseCase) RolesWithPermissions(ctx context.Context) ([]model.RoleWithPermissions, error) {
	rows, err := uc.repo.RolePermissionRows(ctx)
	if err != nil {
		return nil, err
	}
	return rowgroup.Group(rows,
		func(row model.RolePermissionRow) int64 { return row.RoleID },
		func(row model.RolePermissionRow) model.RoleWithPermissions {
			return model.RoleWithPermissions{ID: row.RoleID, Name: row.RoleName, Permissions: []model.Permission{}}
		},
		func(g *model.RoleWithPermissions, row model.RolePermissionRow) {
			if row.PermissionID == nil {
				return
			}
			name := ""
			if row.PermissionName != nil {
				name = *row.PermissionName
			}
			g.Permissions = append(g.Permissions, model.Permission{ID: *row.PermissionID, Name: name})
		},
	), nil
}

func (uc *roleUseCase) RoleHasPermission(ctx context.Context, roleName, permission string) (bool, error) {
	return uc.repo.RoleHasPermission(ctx, roleName, permission)
}

func (uc *roleUseCase) requireRole(ctx context.Context, id int64) error {
	r, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return apperror.NotFound("Role")
	}
	return nil
}

package handler

import (
	"net/http"

	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/role"
	"github.com/wa-thone-kyaw/ano-backend/internal/role/dto"
)

type RoleHandler struct {
	uc     role.UseCase
	logger logger.ZapLogger
}

func NewRoleHandler(uc role.UseCase, log logger.ZapLogger) *RoleHandler {
	return &RoleHandler{
		uc:     uc,
		logger: log,
	}
}

type roleCreatedResponse struct {
	Message string `json:"message"`
	RoleID  int64  `json:"roleId"`
}

type permissionCreatedResponse struct {
	Message      string `json:"message"`
	PermissionID int64  `json:"permissionId"`
}

// GET /roles
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.uc.ListRoles(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, roles)
}

// POST /roles
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var input dto.NameInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	created, err := h.uc.CreateRole(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, roleCreatedResponse{Message: "Role created successfully", RoleID: created.ID})
}

// PUT /roles/{id}
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.NameInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if _, err := h.uc.UpdateRole(r.Context(), id, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Role updated successfully")
}

// DELETE /roles/{id}
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteRole(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Role deleted successfully")
}

// GET /roles/permissions
func (h *RoleHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.uc.ListPermissions(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, perms)
}

// POST /roles/permissions
func (h *RoleHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var input dto.NameInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	created, err := h.uc.CreatePermission(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, permissionCreatedResponse{Message: "Permission created successfully", PermissionID: created.ID})
}

// GET /roles/{id}/permissions
func (h *RoleHandler) RolePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	perms, err := h.uc.RolePermissions(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, perms)
}

// POST /roles/{id}/permissions
func (h *RoleHandler) AssignPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.AssignInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.AssignPermissions(r.Context(), id, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, httpx.MessageResponse{Message: "Permissions assigned to role successfully"})
}

// DELETE /roles/{id}/permissions/{permissionId}
func (h *RoleHandler) UnassignPermission(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	permissionID, err := httpx.PathID(r, "permissionId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.UnassignPermission(r.Context(), id, permissionID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Permission removed from role successfully")
}

// GET /roles/roles-with-permissions
func (h *RoleHandler) RolesWithPermissions(w http.ResponseWriter, r *http.Request) {
	roles, err := h.uc.RolesWithPermissions(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, roles)
}

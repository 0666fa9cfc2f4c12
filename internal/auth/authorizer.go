package auth

import (
	"context"
	"fmt"
)

const (
	ModeAuthenticated = "authenticated"
	ModePermissions   = "permissions"
)

// Authorizer decides whether user may use a capability such as "orders:write".
type Authorizer interface {
	Authorize(ctx context.Context, user UserContext, capability string) (bool, error)
}

// PermissionChecker reports whether a role holds a named permission.
type PermissionChecker interface {
	RoleHasPermission(ctx context.Context, role, permission string) (bool, error)
}

type authenticatedAuthorizer struct{}

func (authenticatedAuthorizer) Authorize(context.Context, UserContext, string) (bool, error) {
	return true, nil
}

type permissionAuthorizer struct {
	checker PermissionChecker
}

func (a *permissionAuthorizer) Authorize(ctx context.Context, user UserContext, capability string) (bool, error) {
	if user.Role == "" {
		return false, nil
	}
	return a.checker.RoleHasPermission(ctx, user.Role, capability)
}

// NewAuthorizer builds the authorizer for AUTHZ_MODE.
func NewAuthorizer(mode string, checker PermissionChecker) (Authorizer, error) {
	switch mode {
	case "", ModeAuthenticated:
		return authenticatedAuthorizer{}, nil
	case ModePermissions:
		if checker == nil {
			return nil, fmt.Errorf("authz mode %q needs a permission checker", mode)
		}
		return &permissionAuthorizer{checker: checker}, nil
	default:
		return nil, fmt.Errorf("unknown authz mode %q", mode)
	}
}

func Capability(resource string, write bool) string {
	if write {
		return resource + ":write"
	}
	return resource + ":read"
}

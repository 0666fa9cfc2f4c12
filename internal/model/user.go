package model

import "time"

const (
	UserActive   = "Active"
	UserInactive = "Inactive"
)

type User struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	Password  string     `db:"password" json:"-"`
	Role      string     `db:"role" json:"role"`
	Status    string     `db:"status" json:"status"`
	Promote   bool       `db:"promote" json:"promote"`
	LastLogin *time.Time `db:"last_login" json:"last_login"`
}

type Role struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Permission struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// RolePermissionRow is one row of the roles LEFT JOIN permissions listing.
type RolePermissionRow struct {
	RoleID         int64   `db:"role_id"`
	RoleName       string  `db:"role_name"`
	PermissionID   *int64  `db:"permission_id"`
	PermissionName *string `db:"permission_name"`
}

type RoleWithPermissions struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

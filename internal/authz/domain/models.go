// Package domain contains the role, permission and staff rows backing
// authorization decisions. The rows are read-only from this core; the
// admin surface that edits them lives elsewhere.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RoleSlugSuperAdmin is the distinguished tenant-independent role. It
// satisfies every permission and tenant-access check unconditionally.
const RoleSlugSuperAdmin = "super_admin"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Role is a named bundle of permissions scoped to one tenant, except the
// super-admin role whose TenantID is null.
type Role struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID  *snowflake.ID `gorm:"index" json:"tenant_id,omitempty"`
	Slug      string        `gorm:"not null;index" json:"slug"`
	Name      string        `gorm:"not null" json:"name"`
	Status    string        `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Role) TableName() string { return "roles" }

// Permission is an atomic named capability.
type Permission struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Code string       `gorm:"not null;uniqueIndex" json:"code"`
	Name string       `gorm:"not null" json:"name"`
}

func (Permission) TableName() string { return "permissions" }

// RolePermission joins roles to their granted permissions.
type RolePermission struct {
	RoleID       snowflake.ID `gorm:"primaryKey" json:"role_id"`
	PermissionID snowflake.ID `gorm:"primaryKey" json:"permission_id"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// StaffUser is the stored backing row for a caller identity: the role and
// tenant assignment plus the current status. Access is a function of
// current status, not historical assignment.
type StaffUser struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID  *snowflake.ID `gorm:"index" json:"tenant_id,omitempty"`
	RoleID    *snowflake.ID `gorm:"index" json:"role_id,omitempty"`
	FullName  string        `gorm:"not null" json:"full_name"`
	Email     string        `gorm:"not null" json:"email"`
	Status    string        `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StaffUser) TableName() string { return "staff_users" }

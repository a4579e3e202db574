package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindRoleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Role, error)
	FindStaffByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*StaffUser, error)
	RoleGrantsCode(ctx context.Context, db *gorm.DB, roleID snowflake.ID, code string) (bool, error)
}

package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/authz/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindRoleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Role, error) {
	var role domain.Role
	err := db.WithContext(ctx).First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *repo) FindStaffByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.StaffUser, error) {
	var staff domain.StaffUser
	err := db.WithContext(ctx).First(&staff, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *repo) RoleGrantsCode(ctx context.Context, db *gorm.DB, roleID snowflake.ID, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("role_permissions").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id = ? AND permissions.code = ?", roleID, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

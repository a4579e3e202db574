package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListTenantFilter struct {
	Name   string
	Status string
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	List(ctx context.Context, db *gorm.DB, filter ListTenantFilter, page pagination.Pagination) ([]Tenant, int64, error)
	ListBranches(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, page pagination.Pagination) ([]Branch, int64, error)
}

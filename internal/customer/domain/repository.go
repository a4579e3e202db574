package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListCustomerFilter struct {
	Search string
	Status string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListCustomerFilter, page pagination.Pagination) ([]Customer, int64, error)
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListVehicleFilter struct {
	BranchID *snowflake.ID
	Search   string
	Status   string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Vehicle, error)
	Update(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListVehicleFilter, page pagination.Pagination) ([]Vehicle, int64, error)
}

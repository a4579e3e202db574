package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/pkg/db/option"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListBookingFilter struct {
	BranchID   *snowflake.ID
	VehicleID  *snowflake.ID
	CustomerID *snowflake.ID
	Status     string
	Search     string
	Sort       option.QuerySortBy
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Booking, error)
	Update(ctx context.Context, db *gorm.DB, booking *Booking) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListBookingFilter, page pagination.Pagination) ([]Booking, int64, error)
	MarkDeleted(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, ids []snowflake.ID, now time.Time) (int64, error)
}

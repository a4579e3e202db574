package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListPaymentFilter struct {
	BookingID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListPaymentFilter, page pagination.Pagination) ([]Payment, int64, error)
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	BookingID *snowflake.ID
	Status    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListInvoiceFilter, page pagination.Pagination) ([]Invoice, int64, error)
}

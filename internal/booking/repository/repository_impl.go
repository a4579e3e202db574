package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/pkg/db/option"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Sort columns are qualified because the search path joins vehicles.
var sortColumns = map[string]string{
	"created_at":   "bookings.created_at",
	"start_date":   "bookings.start_date",
	"end_date":     "bookings.end_date",
	"total_amount": "bookings.total_amount",
	"status":       "bookings.status",
}

var allowedSortColumns = func() map[string]bool {
	allow := make(map[string]bool, len(sortColumns))
	for _, column := range sortColumns {
		allow[column] = true
	}
	return allow
}()

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		First(&booking, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("tenant_id = ? AND id = ?", booking.TenantID, booking.ID).
		Updates(map[string]any{
			"branch_id":    booking.BranchID,
			"start_date":   booking.StartDate,
			"end_date":     booking.EndDate,
			"status":       booking.Status,
			"total_amount": booking.TotalAmount,
			"notes":        booking.Notes,
			"updated_at":   booking.UpdatedAt,
		}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListBookingFilter, page pagination.Pagination) ([]domain.Booking, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("bookings.tenant_id = ?", tenantID).
		Where("bookings.status <> ?", domain.StatusDeleted)
	if filter.BranchID != nil {
		stmt = stmt.Where("bookings.branch_id = ?", *filter.BranchID)
	}
	if filter.VehicleID != nil {
		stmt = stmt.Where("bookings.vehicle_id = ?", *filter.VehicleID)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("bookings.customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("bookings.status = ?", filter.Status)
	}
	if filter.Search != "" {
		stmt = stmt.
			Joins("LEFT JOIN vehicles ON vehicles.id = bookings.vehicle_id").
			Where("(lower(bookings.notes) LIKE ? OR lower(vehicles.plate_number) LIKE ?)",
				"%"+strings.ToLower(filter.Search)+"%",
				"%"+strings.ToLower(filter.Search)+"%",
			)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if qualified, ok := sortColumns[strings.ToLower(strings.TrimSpace(sort.Column))]; ok {
		sort.Column = qualified
	}
	sort.Allow = allowedSortColumns
	sort.Default = "bookings.created_at"

	var bookings []domain.Booking
	err := option.WithSortBy(sort).
		Apply(option.ApplyPagination(page).Apply(stmt)).
		Select("bookings.*").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *repo) MarkDeleted(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, ids []snowflake.ID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("tenant_id = ? AND id IN ? AND status <> ?", tenantID, ids, domain.StatusDeleted).
		Updates(map[string]any{
			"status":     domain.StatusDeleted,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/vehicle/domain"
	"github.com/fleetops/rentdesk/pkg/db/option"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).Create(vehicle).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := db.WithContext(ctx).
		First(&vehicle, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).
		Model(&domain.Vehicle{}).
		Where("tenant_id = ? AND id = ?", vehicle.TenantID, vehicle.ID).
		Updates(map[string]any{
			"branch_id":            vehicle.BranchID,
			"plate_number":         vehicle.PlateNumber,
			"make":                 vehicle.Make,
			"model":                vehicle.Model,
			"daily_rate":           vehicle.DailyRate,
			"hourly_late_fee_rate": vehicle.HourlyLateFeeRate,
			"daily_late_fee_rate":  vehicle.DailyLateFeeRate,
			"status":               vehicle.Status,
			"updated_at":           vehicle.UpdatedAt,
		}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListVehicleFilter, page pagination.Pagination) ([]domain.Vehicle, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Vehicle{}).
		Where("tenant_id = ?", tenantID).
		Where("status <> ?", domain.StatusDeleted)
	if filter.BranchID != nil {
		stmt = stmt.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Search != "" {
		stmt = option.WithSearch(filter.Search, "plate_number", "make", "model").Apply(stmt)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []domain.Vehicle
	err := option.ApplyPagination(page).Apply(stmt).
		Order("created_at desc, id desc").
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

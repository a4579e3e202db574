package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/invoice/domain"
	"github.com/fleetops/rentdesk/pkg/db/option"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		First(&invoice, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("tenant_id = ? AND id = ?", invoice.TenantID, invoice.ID).
		Updates(map[string]any{
			"status":        invoice.Status,
			"subtotal":      invoice.Subtotal,
			"vat_rate":      invoice.VATRate,
			"vat_amount":    invoice.VATAmount,
			"total_amount":  invoice.TotalAmount,
			"currency_code": invoice.CurrencyCode,
			"issued_at":     invoice.IssuedAt,
			"updated_at":    invoice.UpdatedAt,
		}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]domain.Invoice, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Where("status <> ?", domain.StatusCancelled)
	if filter.BookingID != nil {
		stmt = stmt.Where("booking_id = ?", *filter.BookingID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []domain.Invoice
	err := option.ApplyPagination(page).Apply(stmt).
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

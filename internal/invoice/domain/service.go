package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
)

type CreateInvoiceRequest struct {
	TenantID     string
	BookingID    string
	CustomerID   string
	Subtotal     float64
	VATRate      float64
	CurrencyCode string
}

// CreateAutoRequest is the internal payload for the invoice created as a
// side effect of a booking confirmation. It bypasses the actor check: the
// booking transition that triggers it has already been authorized.
type CreateAutoRequest struct {
	TenantID   snowflake.ID
	BookingID  snowflake.ID
	CustomerID snowflake.ID
	Subtotal   float64
}

type InvoicePatch struct {
	Subtotal     *float64
	VATRate      *float64
	CurrencyCode *string
}

type EditInvoiceRequest struct {
	TenantID string
	ID       string
	Patch    InvoicePatch
}

type IssueInvoiceRequest struct {
	TenantID string
	ID       string
}

type CancelInvoiceRequest struct {
	TenantID string
	ID       string
}

type ListInvoiceRequest struct {
	TenantID  string
	BookingID string
	Status    string
	Page      pagination.Pagination
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type GetInvoiceRequest struct {
	TenantID string
	ID       string
}

type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateInvoiceRequest) (Invoice, error)
	CreateAuto(ctx context.Context, req CreateAutoRequest) (Invoice, error)
	Edit(ctx context.Context, actor identity.Identity, req EditInvoiceRequest) (Invoice, error)
	Issue(ctx context.Context, actor identity.Identity, req IssueInvoiceRequest) (Invoice, error)
	Cancel(ctx context.Context, actor identity.Identity, req CancelInvoiceRequest) (Invoice, error)
	List(ctx context.Context, actor identity.Identity, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, req GetInvoiceRequest) (Invoice, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidBooking  = errors.New("invalid_booking")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidSubtotal = errors.New("invalid_subtotal")
	ErrInvalidVATRate  = errors.New("invalid_vat_rate")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrNotFound        = errors.New("not_found")
	ErrNotDraft        = errors.New("invoice_not_draft")
	ErrDuplicateNumber = errors.New("duplicate_invoice_number")
)

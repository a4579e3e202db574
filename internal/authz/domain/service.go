package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/identity"
)

// Permission codes gating the back-office surface.
const (
	CodeBookingView   = "booking.view"
	CodeBookingCreate = "booking.create"
	CodeBookingUpdate = "booking.update"
	CodeBookingDelete = "booking.delete"

	CodePaymentView   = "payment.view"
	CodePaymentCreate = "payment.create"

	CodeInvoiceView   = "invoice.view"
	CodeInvoiceCreate = "invoice.create"
	CodeInvoiceUpdate = "invoice.update"
	CodeInvoiceIssue  = "invoice.issue"
	CodeInvoiceCancel = "invoice.cancel"

	CodeCustomerView   = "customer.view"
	CodeCustomerCreate = "customer.create"
	CodeCustomerUpdate = "customer.update"
	CodeCustomerDelete = "customer.delete"

	CodeVehicleView   = "vehicle.view"
	CodeVehicleCreate = "vehicle.create"
	CodeVehicleUpdate = "vehicle.update"
	CodeVehicleDelete = "vehicle.delete"

	CodeTenantView = "tenant.view"
)

// AllPermissionCodes lists the seeded permission catalog.
func AllPermissionCodes() []string {
	return []string{
		CodeBookingView, CodeBookingCreate, CodeBookingUpdate, CodeBookingDelete,
		CodePaymentView, CodePaymentCreate,
		CodeInvoiceView, CodeInvoiceCreate, CodeInvoiceUpdate, CodeInvoiceIssue, CodeInvoiceCancel,
		CodeCustomerView, CodeCustomerCreate, CodeCustomerUpdate, CodeCustomerDelete,
		CodeVehicleView, CodeVehicleCreate, CodeVehicleUpdate, CodeVehicleDelete,
		CodeTenantView,
	}
}

// Service resolves permissions and tenant access for a caller identity.
// Both checks fail closed: any ambiguity or lookup error resolves to a
// denial, never a grant.
type Service interface {
	// HasPermission reports whether the caller's role grants the code.
	HasPermission(ctx context.Context, actor identity.Identity, code string) bool

	// HasTenantAccess reports whether the caller may act within the tenant.
	HasTenantAccess(ctx context.Context, actor identity.Identity, tenantID snowflake.ID) bool

	// RequireTenantAccess is HasTenantAccess returning ErrAccessDenied on
	// denial, for use at the top of lifecycle operations.
	RequireTenantAccess(ctx context.Context, actor identity.Identity, tenantID snowflake.ID) error
}

var (
	ErrAccessDenied = errors.New("access_denied")
)

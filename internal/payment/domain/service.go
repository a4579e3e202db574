package domain

import (
	"context"
	"errors"

	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
)

type RecordPaymentRequest struct {
	TenantID      string
	BookingID     string
	CustomerID    string
	Amount        float64
	Method        string
	IsDeposit     bool
	PartialAmount float64
}

type ListPaymentRequest struct {
	TenantID  string
	BookingID string
	Page      pagination.Pagination
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type GetPaymentRequest struct {
	TenantID string
	ID       string
}

type Service interface {
	Record(ctx context.Context, actor identity.Identity, req RecordPaymentRequest) (Payment, error)
	List(ctx context.Context, actor identity.Identity, req ListPaymentRequest) (ListPaymentResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, req GetPaymentRequest) (Payment, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidBooking  = errors.New("invalid_booking")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidMethod   = errors.New("invalid_method")
	ErrNotFound        = errors.New("not_found")
)

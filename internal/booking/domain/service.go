package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
)

type CreateBookingRequest struct {
	TenantID    string
	BranchID    string
	VehicleID   string
	CustomerID  string
	StartDate   time.Time
	EndDate     time.Time
	Status      string
	TotalAmount float64
	Notes       string
}

// BookingPatch carries only the fields the caller wants to change.
// Nil means "leave as is".
type BookingPatch struct {
	BranchID    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
	TotalAmount *float64
	Notes       *string
}

type UpdateBookingRequest struct {
	TenantID string
	ID       string
	Patch    BookingPatch
}

type ListBookingRequest struct {
	TenantID   string
	BranchID   string
	VehicleID  string
	CustomerID string
	Status     string
	Search     string
	SortBy     string
	SortDesc   bool
	Page       pagination.Pagination
}

type ListBookingResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

type GetBookingRequest struct {
	TenantID string
	ID       string
}

type SoftDeleteBookingsRequest struct {
	TenantID string
	IDs      []string
}

type SoftDeleteBookingsResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateBookingRequest) (Booking, error)
	Update(ctx context.Context, actor identity.Identity, req UpdateBookingRequest) (Booking, error)
	List(ctx context.Context, actor identity.Identity, req ListBookingRequest) (ListBookingResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, req GetBookingRequest) (Booking, error)
	SoftDelete(ctx context.Context, actor identity.Identity, req SoftDeleteBookingsRequest) (SoftDeleteBookingsResponse, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidBranch     = errors.New("invalid_branch")
	ErrInvalidVehicle    = errors.New("invalid_vehicle")
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidDates      = errors.New("invalid_dates")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotFound          = errors.New("not_found")
)

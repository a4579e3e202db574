package domain

import (
	"context"
	"errors"

	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	TenantID string
	FullName string
	Email    string
	Phone    string
}

// CustomerPatch carries only the fields the caller wants to change.
// Nil means "leave as is".
type CustomerPatch struct {
	FullName *string
	Email    *string
	Phone    *string
	Status   *string
}

type UpdateCustomerRequest struct {
	TenantID string
	ID       string
	Patch    CustomerPatch
}

type ListCustomerRequest struct {
	TenantID string
	Search   string
	Status   string
	Page     pagination.Pagination
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type GetCustomerRequest struct {
	TenantID string
	ID       string
}

type DeleteCustomerRequest struct {
	TenantID string
	ID       string
}

type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, actor identity.Identity, req UpdateCustomerRequest) (Customer, error)
	List(ctx context.Context, actor identity.Identity, req ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, req GetCustomerRequest) (Customer, error)
	Delete(ctx context.Context, actor identity.Identity, req DeleteCustomerRequest) error
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
)

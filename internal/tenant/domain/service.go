package domain

import (
	"context"
	"errors"

	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
)

type ListTenantRequest struct {
	Page   pagination.Pagination
	Name   string
	Status string
}

type ListTenantResponse struct {
	pagination.PageInfo
	Tenants []Tenant `json:"tenants"`
}

type GetTenantRequest struct {
	ID string
}

type ListBranchRequest struct {
	TenantID string
	Page     pagination.Pagination
}

type ListBranchResponse struct {
	pagination.PageInfo
	Branches []Branch `json:"branches"`
}

type Service interface {
	List(ctx context.Context, actor identity.Identity, req ListTenantRequest) (ListTenantResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, req GetTenantRequest) (Tenant, error)
	ListBranches(ctx context.Context, actor identity.Identity, req ListBranchRequest) (ListBranchResponse, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)

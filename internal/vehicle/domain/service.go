package domain

import (
	"context"
	"errors"

	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
)

type CreateVehicleRequest struct {
	TenantID          string
	BranchID          string
	PlateNumber       string
	Make              string
	Model             string
	DailyRate         float64
	HourlyLateFeeRate float64
	DailyLateFeeRate  float64
}

type VehiclePatch struct {
	BranchID          *string
	PlateNumber       *string
	Make              *string
	Model             *string
	DailyRate         *float64
	HourlyLateFeeRate *float64
	DailyLateFeeRate  *float64
	Status            *string
}

type UpdateVehicleRequest struct {
	TenantID string
	ID       string
	Patch    VehiclePatch
}

type ListVehicleRequest struct {
	TenantID string
	BranchID string
	Search   string
	Status   string
	Page     pagination.Pagination
}

type ListVehicleResponse struct {
	pagination.PageInfo
	Vehicles []Vehicle `json:"vehicles"`
}

type GetVehicleRequest struct {
	TenantID string
	ID       string
}

type DeleteVehicleRequest struct {
	TenantID string
	ID       string
}

type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateVehicleRequest) (Vehicle, error)
	Update(ctx context.Context, actor identity.Identity, req UpdateVehicleRequest) (Vehicle, error)
	List(ctx context.Context, actor identity.Identity, req ListVehicleRequest) (ListVehicleResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, req GetVehicleRequest) (Vehicle, error)
	Delete(ctx context.Context, actor identity.Identity, req DeleteVehicleRequest) error
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidBranch = errors.New("invalid_branch")
	ErrInvalidPlate  = errors.New("invalid_plate_number")
	ErrInvalidRate   = errors.New("invalid_rate")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
)

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/internal/clock"
	customerdomain "github.com/fleetops/rentdesk/internal/customer/domain"
	"github.com/fleetops/rentdesk/internal/identity"
	invoicedomain "github.com/fleetops/rentdesk/internal/invoice/domain"
	vehicledomain "github.com/fleetops/rentdesk/internal/vehicle/domain"
	"github.com/fleetops/rentdesk/pkg/db/option"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Authz     authzdomain.Service
	Repo      domain.Repository
	Vehicles  vehicledomain.Repository
	Customers customerdomain.Repository
	Invoices  invoicedomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	authz     authzdomain.Service
	repo      domain.Repository
	vehicles  vehicledomain.Repository
	customers customerdomain.Repository
	invoices  invoicedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("booking.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		authz:     p.Authz,
		repo:      p.Repo,
		vehicles:  p.Vehicles,
		customers: p.Customers,
		invoices:  p.Invoices,
	}
}

func (s *Service) Create(ctx context.Context, actor identity.Identity, req domain.CreateBookingRequest) (domain.Booking, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Booking{}, err
	}

	vehicleID, err := parseWith(req.VehicleID, domain.ErrInvalidVehicle)
	if err != nil {
		return domain.Booking{}, err
	}
	customerID, err := parseWith(req.CustomerID, domain.ErrInvalidCustomer)
	if err != nil {
		return domain.Booking{}, err
	}

	var branchID *snowflake.ID
	if strings.TrimSpace(req.BranchID) != "" {
		id, err := parseWith(req.BranchID, domain.ErrInvalidBranch)
		if err != nil {
			return domain.Booking{}, err
		}
		branchID = &id
	}

	if !req.EndDate.After(req.StartDate) {
		return domain.Booking{}, domain.ErrInvalidDates
	}
	if req.TotalAmount < 0 {
		return domain.Booking{}, domain.ErrInvalidAmount
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.StatusPending
	}
	if status != domain.StatusPending && status != domain.StatusConfirmed {
		return domain.Booking{}, domain.ErrInvalidStatus
	}

	vehicle, err := s.vehicles.FindByID(ctx, s.db, tenantID, vehicleID)
	if err != nil {
		return domain.Booking{}, err
	}
	if vehicle == nil || vehicle.Status == vehicledomain.StatusDeleted {
		return domain.Booking{}, domain.ErrInvalidVehicle
	}

	customer, err := s.customers.FindByID(ctx, s.db, tenantID, customerID)
	if err != nil {
		return domain.Booking{}, err
	}
	if customer == nil || customer.Status == customerdomain.StatusDeleted {
		return domain.Booking{}, domain.ErrInvalidCustomer
	}

	now := s.clock.Now().UTC()
	booking := domain.Booking{
		ID:                s.genID.Generate(),
		TenantID:          tenantID,
		BranchID:          branchID,
		VehicleID:         vehicleID,
		CustomerID:        customerID,
		StartDate:         req.StartDate.UTC(),
		EndDate:           req.EndDate.UTC(),
		Status:            status,
		TotalAmount:       req.TotalAmount,
		HourlyLateFeeRate: vehicle.HourlyLateFeeRate,
		DailyLateFeeRate:  vehicle.DailyLateFeeRate,
		Notes:             strings.TrimSpace(req.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		return domain.Booking{}, err
	}

	if booking.Status == domain.StatusConfirmed {
		s.autoInvoice(ctx, &booking)
	}

	return booking, nil
}

func (s *Service) Update(ctx context.Context, actor identity.Identity, req domain.UpdateBookingRequest) (domain.Booking, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Booking{}, err
	}

	id, err := parseWith(req.ID, domain.ErrInvalidID)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil || booking.Status == domain.StatusDeleted {
		return domain.Booking{}, domain.ErrNotFound
	}

	previousStatus := booking.Status

	if req.Patch.BranchID != nil {
		if strings.TrimSpace(*req.Patch.BranchID) == "" {
			booking.BranchID = nil
		} else {
			branchID, err := parseWith(*req.Patch.BranchID, domain.ErrInvalidBranch)
			if err != nil {
				return domain.Booking{}, err
			}
			booking.BranchID = &branchID
		}
	}
	if req.Patch.StartDate != nil {
		booking.StartDate = req.Patch.StartDate.UTC()
	}
	if req.Patch.EndDate != nil {
		booking.EndDate = req.Patch.EndDate.UTC()
	}
	if !booking.EndDate.After(booking.StartDate) {
		return domain.Booking{}, domain.ErrInvalidDates
	}
	if req.Patch.TotalAmount != nil {
		if *req.Patch.TotalAmount < 0 {
			return domain.Booking{}, domain.ErrInvalidAmount
		}
		booking.TotalAmount = *req.Patch.TotalAmount
	}
	if req.Patch.Notes != nil {
		booking.Notes = strings.TrimSpace(*req.Patch.Notes)
	}
	if req.Patch.Status != nil {
		status := strings.TrimSpace(*req.Patch.Status)
		if !domain.ValidStatus(status) {
			return domain.Booking{}, domain.ErrInvalidStatus
		}
		if !domain.CanTransition(previousStatus, status) {
			return domain.Booking{}, domain.ErrInvalidTransition
		}
		booking.Status = status
	}

	booking.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, booking); err != nil {
		return domain.Booking{}, err
	}

	// The status write and the invoice insert are two independent
	// statements. A booking may appear confirmed with no invoice yet.
	if previousStatus != domain.StatusConfirmed && booking.Status == domain.StatusConfirmed {
		s.autoInvoice(ctx, booking)
	}

	return *booking, nil
}

// autoInvoice creates the derived draft invoice for a confirmed booking.
// Best effort: a failure is logged and never surfaced to the caller.
func (s *Service) autoInvoice(ctx context.Context, booking *domain.Booking) {
	_, err := s.invoices.CreateAuto(ctx, invoicedomain.CreateAutoRequest{
		TenantID:   booking.TenantID,
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		Subtotal:   booking.TotalAmount,
	})
	if err != nil {
		s.log.Warn("auto invoice creation failed",
			zap.Int64("booking_id", int64(booking.ID)),
			zap.Int64("tenant_id", int64(booking.TenantID)),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, actor identity.Identity, req domain.ListBookingRequest) (domain.ListBookingResponse, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.ListBookingResponse{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.ListBookingResponse{}, err
	}

	filter := domain.ListBookingFilter{
		Status: strings.TrimSpace(req.Status),
		Search: strings.TrimSpace(req.Search),
		Sort: option.QuerySortBy{
			Column: strings.TrimSpace(req.SortBy),
			Desc:   req.SortDesc,
		},
	}
	if strings.TrimSpace(req.SortBy) == "" {
		filter.Sort.Desc = true
	}
	if strings.TrimSpace(req.BranchID) != "" {
		branchID, err := parseWith(req.BranchID, domain.ErrInvalidBranch)
		if err != nil {
			return domain.ListBookingResponse{}, err
		}
		filter.BranchID = &branchID
	}
	if strings.TrimSpace(req.VehicleID) != "" {
		vehicleID, err := parseWith(req.VehicleID, domain.ErrInvalidVehicle)
		if err != nil {
			return domain.ListBookingResponse{}, err
		}
		filter.VehicleID = &vehicleID
	}
	if strings.TrimSpace(req.CustomerID) != "" {
		customerID, err := parseWith(req.CustomerID, domain.ErrInvalidCustomer)
		if err != nil {
			return domain.ListBookingResponse{}, err
		}
		filter.CustomerID = &customerID
	}

	page := req.Page.Normalize()
	bookings, total, err := s.repo.List(ctx, s.db, tenantID, filter, page)
	if err != nil {
		return domain.ListBookingResponse{}, err
	}

	return domain.ListBookingResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Bookings: bookings,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, actor identity.Identity, req domain.GetBookingRequest) (domain.Booking, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Booking{}, err
	}

	id, err := parseWith(req.ID, domain.ErrInvalidID)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil || booking.Status == domain.StatusDeleted {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *booking, nil
}

func (s *Service) SoftDelete(ctx context.Context, actor identity.Identity, req domain.SoftDeleteBookingsRequest) (domain.SoftDeleteBookingsResponse, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.SoftDeleteBookingsResponse{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.SoftDeleteBookingsResponse{}, err
	}

	ids := make([]snowflake.ID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseWith(raw, domain.ErrInvalidID)
		if err != nil {
			return domain.SoftDeleteBookingsResponse{}, err
		}
		ids = append(ids, id)
	}

	count, err := s.repo.MarkDeleted(ctx, s.db, tenantID, ids, s.clock.Now().UTC())
	if err != nil {
		return domain.SoftDeleteBookingsResponse{}, err
	}
	return domain.SoftDeleteBookingsResponse{DeletedCount: count}, nil
}

func parseWith(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invalid
	}
	return id, nil
}

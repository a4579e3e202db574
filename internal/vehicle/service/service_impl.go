package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/vehicle/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Authz authzdomain.Service
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	authz authzdomain.Service
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("vehicle.service"),
		genID: p.GenID,
		clock: p.Clock,
		authz: p.Authz,
		repo:  p.Repo,
	}
}

var validStatuses = map[string]struct{}{
	domain.StatusAvailable:   {},
	domain.StatusMaintenance: {},
	domain.StatusRetired:     {},
}

func (s *Service) Create(ctx context.Context, actor identity.Identity, req domain.CreateVehicleRequest) (domain.Vehicle, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Vehicle{}, err
	}

	plate := strings.TrimSpace(req.PlateNumber)
	if plate == "" {
		return domain.Vehicle{}, domain.ErrInvalidPlate
	}
	if req.DailyRate < 0 || req.HourlyLateFeeRate < 0 || req.DailyLateFeeRate < 0 {
		return domain.Vehicle{}, domain.ErrInvalidRate
	}

	var branchID *snowflake.ID
	if strings.TrimSpace(req.BranchID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.BranchID))
		if err != nil || id == 0 {
			return domain.Vehicle{}, domain.ErrInvalidBranch
		}
		branchID = &id
	}

	now := s.clock.Now().UTC()
	vehicle := domain.Vehicle{
		ID:                s.genID.Generate(),
		TenantID:          tenantID,
		BranchID:          branchID,
		PlateNumber:       plate,
		Make:              strings.TrimSpace(req.Make),
		Model:             strings.TrimSpace(req.Model),
		DailyRate:         req.DailyRate,
		HourlyLateFeeRate: req.HourlyLateFeeRate,
		DailyLateFeeRate:  req.DailyLateFeeRate,
		Status:            domain.StatusAvailable,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *Service) Update(ctx context.Context, actor identity.Identity, req domain.UpdateVehicleRequest) (domain.Vehicle, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Vehicle{}, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	vehicle, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle == nil || vehicle.Status == domain.StatusDeleted {
		return domain.Vehicle{}, domain.ErrNotFound
	}

	if err := applyPatch(vehicle, req.Patch); err != nil {
		return domain.Vehicle{}, err
	}

	vehicle.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return *vehicle, nil
}

func applyPatch(vehicle *domain.Vehicle, patch domain.VehiclePatch) error {
	if patch.PlateNumber != nil {
		plate := strings.TrimSpace(*patch.PlateNumber)
		if plate == "" {
			return domain.ErrInvalidPlate
		}
		vehicle.PlateNumber = plate
	}
	if patch.BranchID != nil {
		if strings.TrimSpace(*patch.BranchID) == "" {
			vehicle.BranchID = nil
		} else {
			id, err := snowflake.ParseString(strings.TrimSpace(*patch.BranchID))
			if err != nil || id == 0 {
				return domain.ErrInvalidBranch
			}
			vehicle.BranchID = &id
		}
	}
	if patch.Make != nil {
		vehicle.Make = strings.TrimSpace(*patch.Make)
	}
	if patch.Model != nil {
		vehicle.Model = strings.TrimSpace(*patch.Model)
	}
	if patch.DailyRate != nil {
		if *patch.DailyRate < 0 {
			return domain.ErrInvalidRate
		}
		vehicle.DailyRate = *patch.DailyRate
	}
	if patch.HourlyLateFeeRate != nil {
		if *patch.HourlyLateFeeRate < 0 {
			return domain.ErrInvalidRate
		}
		vehicle.HourlyLateFeeRate = *patch.HourlyLateFeeRate
	}
	if patch.DailyLateFeeRate != nil {
		if *patch.DailyLateFeeRate < 0 {
			return domain.ErrInvalidRate
		}
		vehicle.DailyLateFeeRate = *patch.DailyLateFeeRate
	}
	if patch.Status != nil {
		status := strings.TrimSpace(*patch.Status)
		if _, ok := validStatuses[status]; !ok {
			return domain.ErrInvalidStatus
		}
		vehicle.Status = status
	}
	return nil
}

func (s *Service) List(ctx context.Context, actor identity.Identity, req domain.ListVehicleRequest) (domain.ListVehicleResponse, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.ListVehicleResponse{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.ListVehicleResponse{}, err
	}

	filter := domain.ListVehicleFilter{
		Search: strings.TrimSpace(req.Search),
		Status: strings.TrimSpace(req.Status),
	}
	if strings.TrimSpace(req.BranchID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.BranchID))
		if err != nil || id == 0 {
			return domain.ListVehicleResponse{}, domain.ErrInvalidBranch
		}
		filter.BranchID = &id
	}

	page := req.Page.Normalize()
	vehicles, total, err := s.repo.List(ctx, s.db, tenantID, filter, page)
	if err != nil {
		return domain.ListVehicleResponse{}, err
	}

	return domain.ListVehicleResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Vehicles: vehicles,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, actor identity.Identity, req domain.GetVehicleRequest) (domain.Vehicle, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Vehicle{}, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	vehicle, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle == nil || vehicle.Status == domain.StatusDeleted {
		return domain.Vehicle{}, domain.ErrNotFound
	}
	return *vehicle, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Identity, req domain.DeleteVehicleRequest) error {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return err
	}

	vehicle, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return err
	}
	if vehicle == nil || vehicle.Status == domain.StatusDeleted {
		return nil
	}

	vehicle.Status = domain.StatusDeleted
	vehicle.UpdatedAt = s.clock.Now().UTC()
	return s.repo.Update(ctx, s.db, vehicle)
}

func parseTenantID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidTenant
	}
	return id, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

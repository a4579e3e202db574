package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/customer/domain"
	"github.com/fleetops/rentdesk/internal/identity"
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		authz: p.Authz,
		repo:  p.Repo,
	}
}

var validStatuses = map[string]struct{}{
	domain.StatusActive:   {},
	domain.StatusInactive: {},
}

func (s *Service) Create(ctx context.Context, actor identity.Identity, req domain.CreateCustomerRequest) (domain.Customer, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Customer{}, err
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		FullName:  fullName,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, actor identity.Identity, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Customer{}, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil || customer.Status == domain.StatusDeleted {
		return domain.Customer{}, domain.ErrNotFound
	}

	if req.Patch.FullName != nil {
		fullName := strings.TrimSpace(*req.Patch.FullName)
		if fullName == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		customer.FullName = fullName
	}
	if req.Patch.Email != nil {
		email := strings.TrimSpace(*req.Patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.Customer{}, domain.ErrInvalidEmail
		}
		customer.Email = email
	}
	if req.Patch.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Patch.Phone)
	}
	if req.Patch.Status != nil {
		status := strings.TrimSpace(*req.Patch.Status)
		if _, ok := validStatuses[status]; !ok {
			return domain.Customer{}, domain.ErrInvalidStatus
		}
		customer.Status = status
	}

	customer.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context, actor identity.Identity, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.ListCustomerResponse{}, err
	}

	page := req.Page.Normalize()
	filter := domain.ListCustomerFilter{
		Search: strings.TrimSpace(req.Search),
		Status: strings.TrimSpace(req.Status),
	}

	customers, total, err := s.repo.List(ctx, s.db, tenantID, filter, page)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	return domain.ListCustomerResponse{
		PageInfo:  pagination.BuildPageInfo(page, total),
		Customers: customers,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, actor identity.Identity, req domain.GetCustomerRequest) (domain.Customer, error) {
	tenantID, err := parseTenantID(req.TenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Customer{}, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil || customer.Status == domain.StatusDeleted {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Identity, req domain.DeleteCustomerRequest) error {
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

	customer, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return err
	}
	if customer == nil || customer.Status == domain.StatusDeleted {
		// Deleting an already deleted customer is a no-op.
		return nil
	}

	customer.Status = domain.StatusDeleted
	customer.UpdatedAt = s.clock.Now().UTC()
	return s.repo.Update(ctx, s.db, customer)
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

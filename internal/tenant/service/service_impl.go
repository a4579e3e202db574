package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/tenant/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Authz authzdomain.Service
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	authz authzdomain.Service
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		authz: p.Authz,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, actor identity.Identity, req domain.ListTenantRequest) (domain.ListTenantResponse, error) {
	page := req.Page.Normalize()
	filter := domain.ListTenantFilter{
		Name:   strings.TrimSpace(req.Name),
		Status: strings.TrimSpace(req.Status),
	}

	tenants, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListTenantResponse{}, err
	}

	// Non-super actors only ever see tenants they belong to.
	visible := tenants[:0]
	for _, tenant := range tenants {
		if s.authz.HasTenantAccess(ctx, actor, tenant.ID) {
			visible = append(visible, tenant)
		}
	}
	if len(visible) != len(tenants) {
		total = int64(len(visible))
	}

	return domain.ListTenantResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Tenants:  visible,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, actor identity.Identity, req domain.GetTenantRequest) (domain.Tenant, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Tenant{}, err
	}

	if err := s.authz.RequireTenantAccess(ctx, actor, id); err != nil {
		return domain.Tenant{}, err
	}

	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}
	return *tenant, nil
}

func (s *Service) ListBranches(ctx context.Context, actor identity.Identity, req domain.ListBranchRequest) (domain.ListBranchResponse, error) {
	tenantID, err := parseID(req.TenantID)
	if err != nil {
		return domain.ListBranchResponse{}, err
	}

	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.ListBranchResponse{}, err
	}

	page := req.Page.Normalize()
	branches, total, err := s.repo.ListBranches(ctx, s.db, tenantID, page)
	if err != nil {
		return domain.ListBranchResponse{}, err
	}

	return domain.ListBranchResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Branches: branches,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

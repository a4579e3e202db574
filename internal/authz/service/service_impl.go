package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/identity"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("authz.service"),
		repo: p.Repo,
	}
}

// HasPermission resolves the caller's role and checks the granted set.
// The super-admin slug short-circuits to a grant; everything else goes
// through the role_permissions join. Any lookup failure is a denial.
func (s *Service) HasPermission(ctx context.Context, actor identity.Identity, code string) bool {
	code = strings.TrimSpace(code)
	if actor.IsZero() || code == "" {
		return false
	}

	role := s.resolveRole(ctx, actor)
	if role == nil {
		return false
	}
	if role.Slug == domain.RoleSlugSuperAdmin {
		return true
	}

	granted, err := s.repo.RoleGrantsCode(ctx, s.db, role.ID, code)
	if err != nil {
		s.log.Warn("permission lookup failed",
			zap.Int64("user_id", int64(actor.UserID)),
			zap.String("code", code),
			zap.Error(err),
		)
		return false
	}
	return granted
}

// HasTenantAccess checks, in order: super role, inlined tenant id, an
// active direct staff-to-tenant assignment, and a role scoped to the
// tenant held by an active staff row.
func (s *Service) HasTenantAccess(ctx context.Context, actor identity.Identity, tenantID snowflake.ID) bool {
	if actor.IsZero() || tenantID == 0 {
		return false
	}

	role := s.resolveRole(ctx, actor)
	if role != nil && role.Slug == domain.RoleSlugSuperAdmin {
		return true
	}

	if actor.TenantID != nil && *actor.TenantID == tenantID {
		return true
	}

	staff, err := s.repo.FindStaffByID(ctx, s.db, actor.UserID)
	if err != nil {
		s.log.Warn("staff lookup failed",
			zap.Int64("user_id", int64(actor.UserID)),
			zap.Error(err),
		)
		return false
	}
	if staff == nil || staff.Status != domain.StatusActive {
		return false
	}
	if staff.TenantID != nil && *staff.TenantID == tenantID {
		return true
	}
	if role != nil && role.TenantID != nil && *role.TenantID == tenantID {
		return true
	}
	return false
}

func (s *Service) RequireTenantAccess(ctx context.Context, actor identity.Identity, tenantID snowflake.ID) error {
	if !s.HasTenantAccess(ctx, actor, tenantID) {
		return domain.ErrAccessDenied
	}
	return nil
}

// resolveRole prefers the role inlined on the identity and falls back to
// the caller's stored staff row. Returns nil when no role resolves.
func (s *Service) resolveRole(ctx context.Context, actor identity.Identity) *domain.Role {
	roleID := actor.RoleID
	if roleID == nil {
		staff, err := s.repo.FindStaffByID(ctx, s.db, actor.UserID)
		if err != nil {
			s.log.Warn("staff lookup failed",
				zap.Int64("user_id", int64(actor.UserID)),
				zap.Error(err),
			)
			return nil
		}
		if staff == nil || staff.RoleID == nil {
			return nil
		}
		roleID = staff.RoleID
	}

	role, err := s.repo.FindRoleByID(ctx, s.db, *roleID)
	if err != nil {
		s.log.Warn("role lookup failed",
			zap.Int64("role_id", int64(*roleID)),
			zap.Error(err),
		)
		return nil
	}
	return role
}

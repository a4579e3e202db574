package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/authz/repository"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&domain.Role{},
		&domain.Permission{},
		&domain.RolePermission{},
		&domain.StaffUser{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   conn,
		Log:  zaptest.NewLogger(t),
		Repo: repository.Provide(),
	})

	return &fixture{db: conn, node: node, svc: svc}
}

func (f *fixture) createRole(t *testing.T, tenantID *snowflake.ID, slug string) domain.Role {
	t.Helper()
	role := domain.Role{
		ID:       f.node.Generate(),
		TenantID: tenantID,
		Slug:     slug,
		Name:     slug,
		Status:   domain.StatusActive,
	}
	require.NoError(t, f.db.Create(&role).Error)
	return role
}

func (f *fixture) grant(t *testing.T, roleID snowflake.ID, code string) {
	t.Helper()
	perm := domain.Permission{ID: f.node.Generate(), Code: code, Name: code}
	require.NoError(t, f.db.Create(&perm).Error)
	require.NoError(t, f.db.Create(&domain.RolePermission{RoleID: roleID, PermissionID: perm.ID}).Error)
}

func (f *fixture) createStaff(t *testing.T, tenantID, roleID *snowflake.ID, status string) domain.StaffUser {
	t.Helper()
	staff := domain.StaffUser{
		ID:       f.node.Generate(),
		TenantID: tenantID,
		RoleID:   roleID,
		FullName: "Test Staff",
		Email:    "staff@example.com",
		Status:   status,
	}
	require.NoError(t, f.db.Create(&staff).Error)
	return staff
}

func idPtr(id snowflake.ID) *snowflake.ID { return &id }

func TestSuperAdminBypassesEveryCheck(t *testing.T) {
	f := newFixture(t)
	super := f.createRole(t, nil, domain.RoleSlugSuperAdmin)
	staff := f.createStaff(t, nil, idPtr(super.ID), domain.StatusActive)

	actor := identity.Identity{UserID: staff.ID, RoleID: idPtr(super.ID)}
	ctx := context.Background()

	assert.True(t, f.svc.HasPermission(ctx, actor, domain.CodeBookingDelete))
	assert.True(t, f.svc.HasPermission(ctx, actor, "some.unknown.code"))
	assert.True(t, f.svc.HasTenantAccess(ctx, actor, f.node.Generate()))
}

func TestNoResolvableRoleFailsClosed(t *testing.T) {
	f := newFixture(t)
	staff := f.createStaff(t, nil, nil, domain.StatusActive)

	actor := identity.Identity{UserID: staff.ID}
	ctx := context.Background()

	for _, code := range domain.AllPermissionCodes() {
		assert.False(t, f.svc.HasPermission(ctx, actor, code), code)
	}
}

func TestHasPermissionJoin(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	role := f.createRole(t, idPtr(tenantID), "agent")
	f.grant(t, role.ID, domain.CodeBookingView)
	staff := f.createStaff(t, idPtr(tenantID), idPtr(role.ID), domain.StatusActive)

	actor := identity.Identity{UserID: staff.ID, RoleID: idPtr(role.ID), TenantID: idPtr(tenantID)}
	ctx := context.Background()

	assert.True(t, f.svc.HasPermission(ctx, actor, domain.CodeBookingView))
	assert.False(t, f.svc.HasPermission(ctx, actor, domain.CodeBookingDelete))
	assert.False(t, f.svc.HasPermission(ctx, actor, ""))
	assert.False(t, f.svc.HasPermission(ctx, identity.Identity{}, domain.CodeBookingView))
}

func TestHasPermissionResolvesStoredRole(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	role := f.createRole(t, idPtr(tenantID), "manager")
	f.grant(t, role.ID, domain.CodeInvoiceIssue)
	staff := f.createStaff(t, idPtr(tenantID), idPtr(role.ID), domain.StatusActive)

	// No inline role id: the resolver falls back to the stored staff row.
	actor := identity.Identity{UserID: staff.ID}
	assert.True(t, f.svc.HasPermission(context.Background(), actor, domain.CodeInvoiceIssue))
}

func TestTenantAccessInlineTenant(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	staff := f.createStaff(t, idPtr(tenantID), nil, domain.StatusActive)

	actor := identity.Identity{UserID: staff.ID, TenantID: idPtr(tenantID)}
	ctx := context.Background()

	assert.True(t, f.svc.HasTenantAccess(ctx, actor, tenantID))
	assert.False(t, f.svc.HasTenantAccess(ctx, actor, f.node.Generate()))
}

func TestTenantAccessDirectAssignment(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	staff := f.createStaff(t, idPtr(tenantID), nil, domain.StatusActive)

	actor := identity.Identity{UserID: staff.ID}
	assert.True(t, f.svc.HasTenantAccess(context.Background(), actor, tenantID))
}

func TestDeactivatedStaffLosesAccess(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	staff := f.createStaff(t, idPtr(tenantID), nil, domain.StatusInactive)

	// The assignment row still exists; status alone revokes access.
	actor := identity.Identity{UserID: staff.ID}
	assert.False(t, f.svc.HasTenantAccess(context.Background(), actor, tenantID))
}

func TestTenantAccessThroughRoleScope(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	role := f.createRole(t, idPtr(tenantID), "agent")
	staff := f.createStaff(t, nil, idPtr(role.ID), domain.StatusActive)

	actor := identity.Identity{UserID: staff.ID, RoleID: idPtr(role.ID)}
	ctx := context.Background()

	assert.True(t, f.svc.HasTenantAccess(ctx, actor, tenantID))

	inactive := f.createStaff(t, nil, idPtr(role.ID), domain.StatusInactive)
	assert.False(t, f.svc.HasTenantAccess(ctx, identity.Identity{UserID: inactive.ID, RoleID: idPtr(role.ID)}, tenantID))
}

func TestRequireTenantAccess(t *testing.T) {
	f := newFixture(t)
	tenantID := f.node.Generate()
	staff := f.createStaff(t, idPtr(tenantID), nil, domain.StatusActive)

	ctx := context.Background()
	assert.NoError(t, f.svc.RequireTenantAccess(ctx, identity.Identity{UserID: staff.ID}, tenantID))
	assert.ErrorIs(t, f.svc.RequireTenantAccess(ctx, identity.Identity{UserID: staff.ID}, f.node.Generate()), domain.ErrAccessDenied)
	assert.ErrorIs(t, f.svc.RequireTenantAccess(ctx, identity.Identity{}, tenantID), domain.ErrAccessDenied)
}

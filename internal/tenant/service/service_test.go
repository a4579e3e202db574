package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	authzrepository "github.com/fleetops/rentdesk/internal/authz/repository"
	authzservice "github.com/fleetops/rentdesk/internal/authz/service"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/tenant/domain"
	"github.com/fleetops/rentdesk/internal/tenant/repository"
	"github.com/fleetops/rentdesk/pkg/db"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
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
		&authzdomain.Role{},
		&authzdomain.Permission{},
		&authzdomain.RolePermission{},
		&authzdomain.StaffUser{},
		&domain.Tenant{},
		&domain.Branch{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)

	authz := authzservice.New(authzservice.Params{
		DB:   conn,
		Log:  log,
		Repo: authzrepository.Provide(),
	})

	svc := New(Params{
		DB:    conn,
		Log:   log,
		Authz: authz,
		Repo:  repository.Provide(),
	})

	return &fixture{db: conn, node: node, svc: svc}
}

func (f *fixture) createTenant(t *testing.T, name string) domain.Tenant {
	t.Helper()
	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        f.node.Generate(),
		Name:      name,
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&tenant).Error)
	return tenant
}

func (f *fixture) createStaff(t *testing.T, tenantID *snowflake.ID, roleID *snowflake.ID) identity.Identity {
	t.Helper()
	staff := authzdomain.StaffUser{
		ID:       f.node.Generate(),
		TenantID: tenantID,
		RoleID:   roleID,
		FullName: "Staff",
		Email:    "staff@example.com",
		Status:   authzdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&staff).Error)
	return identity.Identity{UserID: staff.ID, TenantID: tenantID, RoleID: roleID}
}

func TestListShowsOnlyAccessibleTenants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createTenant(t, "Mine")
	f.createTenant(t, "Theirs")
	actor := f.createStaff(t, &mine.ID, nil)

	resp, err := f.svc.List(ctx, actor, domain.ListTenantRequest{
		Page: pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Tenants, 1)
	assert.Equal(t, mine.ID, resp.Tenants[0].ID)
	assert.Equal(t, int64(1), resp.TotalCount)
}

func TestSuperAdminSeesAllTenants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createTenant(t, "First")
	f.createTenant(t, "Second")

	super := authzdomain.Role{
		ID:     f.node.Generate(),
		Slug:   authzdomain.RoleSlugSuperAdmin,
		Name:   "Super Admin",
		Status: authzdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&super).Error)
	actor := f.createStaff(t, nil, &super.ID)

	resp, err := f.svc.List(ctx, actor, domain.ListTenantRequest{
		Page: pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Tenants, 2)
}

func TestGetByIDEnforcesAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createTenant(t, "Mine")
	theirs := f.createTenant(t, "Theirs")
	actor := f.createStaff(t, &mine.ID, nil)

	got, err := f.svc.GetByID(ctx, actor, domain.GetTenantRequest{ID: mine.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)

	_, err = f.svc.GetByID(ctx, actor, domain.GetTenantRequest{ID: theirs.ID.String()})
	assert.ErrorIs(t, err, authzdomain.ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, actor, domain.GetTenantRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListBranches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tenant := f.createTenant(t, "Mine")
	actor := f.createStaff(t, &tenant.ID, nil)

	now := time.Now().UTC()
	for _, name := range []string{"Downtown", "Airport"} {
		branch := domain.Branch{
			ID:        f.node.Generate(),
			TenantID:  tenant.ID,
			Name:      name,
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, f.db.Create(&branch).Error)
	}

	resp, err := f.svc.ListBranches(ctx, actor, domain.ListBranchRequest{
		TenantID: tenant.ID.String(),
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Branches, 2)
	assert.Equal(t, int64(2), resp.TotalCount)
}

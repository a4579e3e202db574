package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	authzrepository "github.com/fleetops/rentdesk/internal/authz/repository"
	authzservice "github.com/fleetops/rentdesk/internal/authz/service"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/customer/domain"
	"github.com/fleetops/rentdesk/internal/customer/repository"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/pkg/db"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      domain.Service
	tenantID snowflake.ID
	actor    identity.Identity
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
		&domain.Customer{},
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
		GenID: node,
		Clock: clock.NewSystemClock(),
		Authz: authz,
		Repo:  repository.Provide(),
	})

	tenantID := node.Generate()
	staff := authzdomain.StaffUser{
		ID:       node.Generate(),
		TenantID: &tenantID,
		FullName: "Agent",
		Email:    "agent@example.com",
		Status:   authzdomain.StatusActive,
	}
	require.NoError(t, conn.Create(&staff).Error)

	return &fixture{
		db:       conn,
		node:     node,
		svc:      svc,
		tenantID: tenantID,
		actor:    identity.Identity{UserID: staff.ID, TenantID: &tenantID},
	}
}

func (f *fixture) create(t *testing.T, name, email, phone string) domain.Customer {
	t.Helper()
	customer, err := f.svc.Create(context.Background(), f.actor, domain.CreateCustomerRequest{
		TenantID: f.tenantID.String(),
		FullName: name,
		Email:    email,
		Phone:    phone,
	})
	require.NoError(t, err)
	return customer
}

func strPtr(s string) *string { return &s }

func TestCreateValidatesNameAndEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor, domain.CreateCustomerRequest{
		TenantID: f.tenantID.String(),
		FullName: "   ",
		Email:    "jane@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(ctx, f.actor, domain.CreateCustomerRequest{
		TenantID: f.tenantID.String(),
		FullName: "Jane Doe",
		Email:    "not-an-email",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	customer := f.create(t, "  Jane Doe  ", "jane@example.com", " 555-0100 ")
	assert.Equal(t, "Jane Doe", customer.FullName)
	assert.Equal(t, "555-0100", customer.Phone)
	assert.Equal(t, domain.StatusActive, customer.Status)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.create(t, "Jane Doe", "jane@example.com", "555-0100")

	updated, err := f.svc.Update(ctx, f.actor, domain.UpdateCustomerRequest{
		TenantID: f.tenantID.String(),
		ID:       customer.ID.String(),
		Patch:    domain.CustomerPatch{Phone: strPtr("555-0199")},
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Jane Doe", updated.FullName)
	assert.Equal(t, "jane@example.com", updated.Email)

	_, err = f.svc.Update(ctx, f.actor, domain.UpdateCustomerRequest{
		TenantID: f.tenantID.String(),
		ID:       customer.ID.String(),
		Patch:    domain.CustomerPatch{Status: strPtr("deleted")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.create(t, "Jane Doe", "jane@example.com", "")

	req := domain.DeleteCustomerRequest{TenantID: f.tenantID.String(), ID: customer.ID.String()}
	require.NoError(t, f.svc.Delete(ctx, f.actor, req))

	_, err := f.svc.GetByID(ctx, f.actor, domain.GetCustomerRequest{
		TenantID: f.tenantID.String(),
		ID:       customer.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is a silent no-op.
	require.NoError(t, f.svc.Delete(ctx, f.actor, req))
}

func TestListSearchesAndExcludesDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	jane := f.create(t, "Jane Doe", "jane@example.com", "555-0100")
	f.create(t, "John Roe", "john@example.com", "555-0200")
	gone := f.create(t, "Ghost", "ghost@example.com", "")
	require.NoError(t, f.svc.Delete(ctx, f.actor, domain.DeleteCustomerRequest{
		TenantID: f.tenantID.String(),
		ID:       gone.ID.String(),
	}))

	resp, err := f.svc.List(ctx, f.actor, domain.ListCustomerRequest{
		TenantID: f.tenantID.String(),
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)

	resp, err = f.svc.List(ctx, f.actor, domain.ListCustomerRequest{
		TenantID: f.tenantID.String(),
		Search:   "jane",
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, jane.ID, resp.Customers[0].ID)
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.create(t, "Jane Doe", "jane@example.com", "")

	otherTenant := f.node.Generate()
	outsider := authzdomain.StaffUser{
		ID:       f.node.Generate(),
		TenantID: &otherTenant,
		FullName: "Outsider",
		Email:    "outsider@example.com",
		Status:   authzdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&outsider).Error)
	stranger := identity.Identity{UserID: outsider.ID, TenantID: &otherTenant}

	_, err := f.svc.GetByID(ctx, stranger, domain.GetCustomerRequest{
		TenantID: f.tenantID.String(),
		ID:       customer.ID.String(),
	})
	assert.ErrorIs(t, err, authzdomain.ErrAccessDenied)
}

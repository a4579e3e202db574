package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	authzrepository "github.com/fleetops/rentdesk/internal/authz/repository"
	authzservice "github.com/fleetops/rentdesk/internal/authz/service"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/vehicle/domain"
	"github.com/fleetops/rentdesk/internal/vehicle/repository"
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
		&domain.Vehicle{},
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

func (f *fixture) create(t *testing.T, plate string, daily float64) domain.Vehicle {
	t.Helper()
	vehicle, err := f.svc.Create(context.Background(), f.actor, domain.CreateVehicleRequest{
		TenantID:    f.tenantID.String(),
		PlateNumber: plate,
		Make:        "Toyota",
		Model:       "Corolla",
		DailyRate:   daily,
	})
	require.NoError(t, err)
	return vehicle
}

func f64Ptr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor, domain.CreateVehicleRequest{
		TenantID:  f.tenantID.String(),
		DailyRate: 50,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPlate)

	_, err = f.svc.Create(ctx, f.actor, domain.CreateVehicleRequest{
		TenantID:    f.tenantID.String(),
		PlateNumber: "B-1234-XY",
		DailyRate:   -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	vehicle := f.create(t, "B-1234-XY", 50)
	assert.Equal(t, domain.StatusAvailable, vehicle.Status)
	assert.Zero(t, vehicle.HourlyLateFeeRate)
	assert.Zero(t, vehicle.DailyLateFeeRate)
}

func TestUpdateLateFeeRates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	vehicle := f.create(t, "B-1234-XY", 50)

	updated, err := f.svc.Update(ctx, f.actor, domain.UpdateVehicleRequest{
		TenantID: f.tenantID.String(),
		ID:       vehicle.ID.String(),
		Patch: domain.VehiclePatch{
			HourlyLateFeeRate: f64Ptr(2.5),
			DailyLateFeeRate:  f64Ptr(15),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.HourlyLateFeeRate)
	assert.Equal(t, 15.0, updated.DailyLateFeeRate)
	assert.Equal(t, "B-1234-XY", updated.PlateNumber)

	_, err = f.svc.Update(ctx, f.actor, domain.UpdateVehicleRequest{
		TenantID: f.tenantID.String(),
		ID:       vehicle.ID.String(),
		Patch:    domain.VehiclePatch{HourlyLateFeeRate: f64Ptr(-1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestStatusTransitionsAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	vehicle := f.create(t, "B-1234-XY", 50)

	updated, err := f.svc.Update(ctx, f.actor, domain.UpdateVehicleRequest{
		TenantID: f.tenantID.String(),
		ID:       vehicle.ID.String(),
		Patch:    domain.VehiclePatch{Status: strPtr(domain.StatusMaintenance)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMaintenance, updated.Status)

	_, err = f.svc.Update(ctx, f.actor, domain.UpdateVehicleRequest{
		TenantID: f.tenantID.String(),
		ID:       vehicle.ID.String(),
		Patch:    domain.VehiclePatch{Status: strPtr("scrapped")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	req := domain.DeleteVehicleRequest{TenantID: f.tenantID.String(), ID: vehicle.ID.String()}
	require.NoError(t, f.svc.Delete(ctx, f.actor, req))
	require.NoError(t, f.svc.Delete(ctx, f.actor, req))

	_, err = f.svc.GetByID(ctx, f.actor, domain.GetVehicleRequest{
		TenantID: f.tenantID.String(),
		ID:       vehicle.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFiltersByStatusAndPlate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, "B-1234-XY", 50)
	f.create(t, "D-5678-AB", 70)

	resp, err := f.svc.List(ctx, f.actor, domain.ListVehicleRequest{
		TenantID: f.tenantID.String(),
		Search:   "1234",
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Vehicles, 1)
	assert.Equal(t, first.ID, resp.Vehicles[0].ID)

	resp, err = f.svc.List(ctx, f.actor, domain.ListVehicleRequest{
		TenantID: f.tenantID.String(),
		Status:   domain.StatusAvailable,
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
}

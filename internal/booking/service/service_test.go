package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	authzrepository "github.com/fleetops/rentdesk/internal/authz/repository"
	authzservice "github.com/fleetops/rentdesk/internal/authz/service"
	"github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/internal/booking/repository"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/config"
	customerdomain "github.com/fleetops/rentdesk/internal/customer/domain"
	customerrepository "github.com/fleetops/rentdesk/internal/customer/repository"
	"github.com/fleetops/rentdesk/internal/identity"
	invoicedomain "github.com/fleetops/rentdesk/internal/invoice/domain"
	invoicerepository "github.com/fleetops/rentdesk/internal/invoice/repository"
	invoiceservice "github.com/fleetops/rentdesk/internal/invoice/service"
	"github.com/fleetops/rentdesk/internal/notification"
	"github.com/fleetops/rentdesk/internal/providers/email"
	vehicledomain "github.com/fleetops/rentdesk/internal/vehicle/domain"
	vehiclerepository "github.com/fleetops/rentdesk/internal/vehicle/repository"
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
	clock    *clock.FakeClock
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
		&customerdomain.Customer{},
		&vehicledomain.Vehicle{},
		&domain.Booking{},
		&invoicedomain.Invoice{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	authz := authzservice.New(authzservice.Params{
		DB:   conn,
		Log:  log,
		Repo: authzrepository.Provide(),
	})

	rental, err := config.NewRentalConfigHolder()
	require.NoError(t, err)

	invoices := invoiceservice.New(invoiceservice.Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Rental:    rental,
		Authz:     authz,
		Repo:      invoicerepository.Provide(),
		Customers: customerrepository.Provide(),
		Notifier: notification.New(notification.Params{
			Log:   log,
			Email: &email.NoOpProvider{},
		}),
	})

	svc := New(Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Authz:     authz,
		Repo:      repository.Provide(),
		Vehicles:  vehiclerepository.Provide(),
		Customers: customerrepository.Provide(),
		Invoices:  invoices,
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
		clock:    fake,
		svc:      svc,
		tenantID: tenantID,
		actor:    identity.Identity{UserID: staff.ID},
	}
}

func (f *fixture) createVehicle(t *testing.T, plate string) vehicledomain.Vehicle {
	t.Helper()
	vehicle := vehicledomain.Vehicle{
		ID:          f.node.Generate(),
		TenantID:    f.tenantID,
		PlateNumber: plate,
		DailyRate:   100,
		Status:      vehicledomain.StatusAvailable,
	}
	require.NoError(t, f.db.Create(&vehicle).Error)
	return vehicle
}

func (f *fixture) createCustomer(t *testing.T) customerdomain.Customer {
	t.Helper()
	customer := customerdomain.Customer{
		ID:       f.node.Generate(),
		TenantID: f.tenantID,
		FullName: "Jamie Renter",
		Email:    "jamie@example.com",
		Status:   customerdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&customer).Error)
	return customer
}

func (f *fixture) createBooking(t *testing.T, amount float64) domain.Booking {
	t.Helper()
	vehicle := f.createVehicle(t, "B-1234-XY")
	customer := f.createCustomer(t)
	booking, err := f.svc.Create(context.Background(), f.actor, domain.CreateBookingRequest{
		TenantID:    f.tenantID.String(),
		VehicleID:   vehicle.ID.String(),
		CustomerID:  customer.ID.String(),
		StartDate:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC),
		TotalAmount: amount,
	})
	require.NoError(t, err)
	return booking
}

func strPtr(v string) *string { return &v }

func f64Ptr(v float64) *float64 { return &v }

func TestCreateDefaultsToPending(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 500)

	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, 500.0, booking.TotalAmount)

	var count int64
	require.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count, "pending booking must not create an invoice")
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t, "B-5678-ZZ")
	customer := f.createCustomer(t)

	base := domain.CreateBookingRequest{
		TenantID:   f.tenantID.String(),
		VehicleID:  vehicle.ID.String(),
		CustomerID: customer.ID.String(),
		StartDate:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC),
	}
	ctx := context.Background()

	req := base
	req.EndDate = req.StartDate
	_, err := f.svc.Create(ctx, f.actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	req = base
	req.TotalAmount = -1
	_, err = f.svc.Create(ctx, f.actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = base
	req.VehicleID = f.node.Generate().String()
	_, err = f.svc.Create(ctx, f.actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidVehicle)

	req = base
	req.Status = "completed"
	_, err = f.svc.Create(ctx, f.actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestConfirmCreatesExactlyOneAutoInvoice(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 500)

	updated, err := f.svc.Update(context.Background(), f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch:    domain.BookingPatch{Status: strPtr(domain.StatusConfirmed)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	var invoices []invoicedomain.Invoice
	require.NoError(t, f.db.Find(&invoices, "booking_id = ?", booking.ID).Error)
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].IsAutoGenerated)
	assert.Equal(t, invoicedomain.StatusDraft, invoices[0].Status)
	assert.Equal(t, 500.0, invoices[0].Subtotal)
	assert.Equal(t, 0.0, invoices[0].VATRate)
	assert.Equal(t, 0.0, invoices[0].VATAmount)
	assert.Equal(t, 500.0, invoices[0].TotalAmount)

	// Confirming an already confirmed booking is a no-op transition and
	// must not mint a second invoice.
	_, err = f.svc.Update(context.Background(), f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch:    domain.BookingPatch{Status: strPtr(domain.StatusConfirmed)},
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Find(&invoices, "booking_id = ?", booking.ID).Error)
	assert.Len(t, invoices, 1)
}

func TestConfirmUsesPatchedAmountForSubtotal(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 500)

	_, err := f.svc.Update(context.Background(), f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch: domain.BookingPatch{
			Status:      strPtr(domain.StatusConfirmed),
			TotalAmount: f64Ptr(650),
		},
	})
	require.NoError(t, err)

	var invoice invoicedomain.Invoice
	require.NoError(t, f.db.First(&invoice, "booking_id = ?", booking.ID).Error)
	assert.Equal(t, 650.0, invoice.Subtotal)
}

func TestInvalidTransitionRejected(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 100)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch:    domain.BookingPatch{Status: strPtr(domain.StatusCompleted)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// pending → cancelled is allowed, and cancelled is terminal.
	_, err = f.svc.Update(ctx, f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch:    domain.BookingPatch{Status: strPtr(domain.StatusCancelled)},
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch:    domain.BookingPatch{Status: strPtr(domain.StatusConfirmed)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 300)

	updated, err := f.svc.Update(context.Background(), f.actor, domain.UpdateBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
		Patch:    domain.BookingPatch{Notes: strPtr("late pickup")},
	})
	require.NoError(t, err)
	assert.Equal(t, "late pickup", updated.Notes)
	assert.Equal(t, booking.TotalAmount, updated.TotalAmount)
	assert.Equal(t, booking.Status, updated.Status)
	assert.True(t, booking.StartDate.Equal(updated.StartDate))
}

func TestSoftDeleteIdempotent(t *testing.T) {
	f := newFixture(t)
	first := f.createBooking(t, 100)
	second := f.createBooking(t, 200)
	ctx := context.Background()

	req := domain.SoftDeleteBookingsRequest{
		TenantID: f.tenantID.String(),
		IDs:      []string{first.ID.String(), second.ID.String()},
	}

	resp, err := f.svc.SoftDelete(ctx, f.actor, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DeletedCount)

	resp, err = f.svc.SoftDelete(ctx, f.actor, req)
	require.NoError(t, err)
	assert.Zero(t, resp.DeletedCount)

	_, err = f.svc.GetByID(ctx, f.actor, domain.GetBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       first.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListExcludesDeletedAndSearchesPlate(t *testing.T) {
	f := newFixture(t)
	kept := f.createBooking(t, 100)
	gone := f.createBooking(t, 200)
	ctx := context.Background()

	_, err := f.svc.SoftDelete(ctx, f.actor, domain.SoftDeleteBookingsRequest{
		TenantID: f.tenantID.String(),
		IDs:      []string{gone.ID.String()},
	})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, f.actor, domain.ListBookingRequest{
		TenantID: f.tenantID.String(),
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, kept.ID, resp.Bookings[0].ID)
	assert.Equal(t, int64(1), resp.TotalCount)

	resp, err = f.svc.List(ctx, f.actor, domain.ListBookingRequest{
		TenantID: f.tenantID.String(),
		Search:   "1234",
		Page:     pagination.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestUnknownActorDenied(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 100)

	stranger := identity.Identity{UserID: f.node.Generate()}
	_, err := f.svc.GetByID(context.Background(), stranger, domain.GetBookingRequest{
		TenantID: f.tenantID.String(),
		ID:       booking.ID.String(),
	})
	assert.ErrorIs(t, err, authzdomain.ErrAccessDenied)
}

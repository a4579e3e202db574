package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	authzrepository "github.com/fleetops/rentdesk/internal/authz/repository"
	authzservice "github.com/fleetops/rentdesk/internal/authz/service"
	bookingdomain "github.com/fleetops/rentdesk/internal/booking/domain"
	bookingrepository "github.com/fleetops/rentdesk/internal/booking/repository"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/payment/domain"
	"github.com/fleetops/rentdesk/internal/payment/repository"
	"github.com/fleetops/rentdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var endDate = time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

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
		&bookingdomain.Booking{},
		&domain.Payment{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	fake := clock.NewFakeClock(endDate)

	authz := authzservice.New(authzservice.Params{
		DB:   conn,
		Log:  log,
		Repo: authzrepository.Provide(),
	})

	svc := New(Params{
		DB:       conn,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Authz:    authz,
		Repo:     repository.Provide(),
		Bookings: bookingrepository.Provide(),
	})

	tenantID := node.Generate()
	staff := authzdomain.StaffUser{
		ID:       node.Generate(),
		TenantID: &tenantID,
		FullName: "Cashier",
		Email:    "cashier@example.com",
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

func (f *fixture) createBooking(t *testing.T, hourlyRate, dailyRate float64) bookingdomain.Booking {
	t.Helper()
	booking := bookingdomain.Booking{
		ID:                f.node.Generate(),
		TenantID:          f.tenantID,
		VehicleID:         f.node.Generate(),
		CustomerID:        f.node.Generate(),
		StartDate:         endDate.Add(-72 * time.Hour),
		EndDate:           endDate,
		Status:            bookingdomain.StatusActive,
		TotalAmount:       300,
		HourlyLateFeeRate: hourlyRate,
		DailyLateFeeRate:  dailyRate,
	}
	require.NoError(t, f.db.Create(&booking).Error)
	return booking
}

func (f *fixture) record(t *testing.T, booking bookingdomain.Booking, req domain.RecordPaymentRequest) (domain.Payment, error) {
	t.Helper()
	req.TenantID = f.tenantID.String()
	req.BookingID = booking.ID.String()
	req.CustomerID = booking.CustomerID.String()
	return f.svc.Record(context.Background(), f.actor, req)
}

func TestLateFeeZeroAtEndDate(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 2, 10)

	payment, err := f.record(t, booking, domain.RecordPaymentRequest{
		Amount: 300,
		Method: domain.MethodCash,
	})
	require.NoError(t, err)
	assert.Zero(t, payment.LateFee)
	assert.Equal(t, 300.0, payment.PaidAmount)
}

func TestLateFeeDailyRate(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 0, 10)
	f.clock.Advance(25 * time.Hour)

	payment, err := f.record(t, booking, domain.RecordPaymentRequest{
		Amount: 300,
		Method: domain.MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, payment.LateFee)
	assert.Equal(t, 320.0, payment.PaidAmount)
	assert.Equal(t, "daily", payment.SplitDetails["late_fee_rate_kind"])
}

func TestLateFeeHourlyRateTakesPrecedence(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 2, 10)
	f.clock.Advance(25 * time.Hour)

	payment, err := f.record(t, booking, domain.RecordPaymentRequest{
		Amount: 300,
		Method: domain.MethodBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, payment.LateFee)
	assert.Equal(t, 350.0, payment.PaidAmount)
	assert.Equal(t, "hourly", payment.SplitDetails["late_fee_rate_kind"])
}

func TestPartialAmountSupersedesFullAmount(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 0, 0)

	payment, err := f.record(t, booking, domain.RecordPaymentRequest{
		Amount:        300,
		PartialAmount: 120,
		Method:        domain.MethodOnline,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, payment.PaidAmount)
	assert.Equal(t, 300.0, payment.Amount)
	assert.Equal(t, 120.0, payment.PartialAmount)
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 0, 0)

	_, err := f.record(t, booking, domain.RecordPaymentRequest{Amount: 0, Method: domain.MethodCash})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.record(t, booking, domain.RecordPaymentRequest{Amount: 100, Method: "check"})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = f.svc.Record(context.Background(), f.actor, domain.RecordPaymentRequest{
		TenantID:   f.tenantID.String(),
		BookingID:  f.node.Generate().String(),
		CustomerID: booking.CustomerID.String(),
		Amount:     100,
		Method:     domain.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The booking must belong to the stated customer.
	_, err = f.svc.Record(context.Background(), f.actor, domain.RecordPaymentRequest{
		TenantID:   f.tenantID.String(),
		BookingID:  booking.ID.String(),
		CustomerID: f.node.Generate().String(),
		Amount:     100,
		Method:     domain.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

func TestRecordRejectsDeletedBooking(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 0, 0)
	require.NoError(t, f.db.Model(&bookingdomain.Booking{}).
		Where("id = ?", booking.ID).
		Update("status", bookingdomain.StatusDeleted).Error)

	_, err := f.record(t, booking, domain.RecordPaymentRequest{Amount: 100, Method: domain.MethodCash})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordNeverTouchesBooking(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 2, 10)
	f.clock.Advance(30 * time.Hour)

	_, err := f.record(t, booking, domain.RecordPaymentRequest{Amount: 300, Method: domain.MethodCash})
	require.NoError(t, err)

	var stored bookingdomain.Booking
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, booking.Status, stored.Status)
	assert.Equal(t, booking.TotalAmount, stored.TotalAmount)
}

func TestListExcludesDeletedPayments(t *testing.T) {
	f := newFixture(t)
	booking := f.createBooking(t, 0, 0)

	kept, err := f.record(t, booking, domain.RecordPaymentRequest{Amount: 100, Method: domain.MethodCash})
	require.NoError(t, err)
	gone, err := f.record(t, booking, domain.RecordPaymentRequest{Amount: 50, Method: domain.MethodCash})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&domain.Payment{}).
		Where("id = ?", gone.ID).
		Update("status", domain.StatusDeleted).Error)

	resp, err := f.svc.List(context.Background(), f.actor, domain.ListPaymentRequest{
		TenantID:  f.tenantID.String(),
		BookingID: booking.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, kept.ID, resp.Payments[0].ID)
	assert.Equal(t, int64(1), resp.TotalCount)
}

package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	bookingdomain "github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/payment/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Authz    authzdomain.Service
	Repo     domain.Repository
	Bookings bookingdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	authz    authzdomain.Service
	repo     domain.Repository
	bookings bookingdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		authz:    p.Authz,
		repo:     p.Repo,
		bookings: p.Bookings,
	}
}

var validMethods = map[string]struct{}{
	domain.MethodCash:         {},
	domain.MethodCard:         {},
	domain.MethodBankTransfer: {},
	domain.MethodOnline:       {},
}

// lateFee accrues once the recording time passes the booking's end date.
// The hourly rate takes precedence over the daily rate when both are set.
func lateFee(booking *bookingdomain.Booking, now time.Time) (float64, string) {
	if !now.After(booking.EndDate) {
		return 0, "none"
	}
	hoursLate := now.Sub(booking.EndDate).Hours()
	switch {
	case booking.HourlyLateFeeRate > 0:
		return round2(math.Ceil(hoursLate) * booking.HourlyLateFeeRate), "hourly"
	case booking.DailyLateFeeRate > 0:
		return round2(math.Ceil(hoursLate/24) * booking.DailyLateFeeRate), "daily"
	}
	return 0, "none"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) Record(ctx context.Context, actor identity.Identity, req domain.RecordPaymentRequest) (domain.Payment, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Payment{}, err
	}

	bookingID, err := parseWith(req.BookingID, domain.ErrInvalidBooking)
	if err != nil {
		return domain.Payment{}, err
	}
	customerID, err := parseWith(req.CustomerID, domain.ErrInvalidCustomer)
	if err != nil {
		return domain.Payment{}, err
	}
	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if req.PartialAmount < 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	method := strings.TrimSpace(strings.ToLower(req.Method))
	if _, ok := validMethods[method]; !ok {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	booking, err := s.bookings.FindByID(ctx, s.db, tenantID, bookingID)
	if err != nil {
		return domain.Payment{}, err
	}
	if booking == nil || booking.Status == bookingdomain.StatusDeleted {
		return domain.Payment{}, domain.ErrNotFound
	}
	if booking.CustomerID != customerID {
		return domain.Payment{}, domain.ErrInvalidCustomer
	}

	now := s.clock.Now().UTC()
	fee, feeKind := lateFee(booking, now)

	base := req.Amount
	if req.PartialAmount > 0 {
		base = req.PartialAmount
	}

	payment := domain.Payment{
		ID:            s.genID.Generate(),
		BookingID:     bookingID,
		TenantID:      tenantID,
		CustomerID:    customerID,
		Amount:        req.Amount,
		PaidAmount:    round2(fee + base),
		PaymentMethod: method,
		Status:        domain.StatusCompleted,
		IsDeposit:     req.IsDeposit,
		PartialAmount: req.PartialAmount,
		LateFee:       fee,
		SplitDetails: datatypes.JSONMap{
			"base_amount":        base,
			"late_fee":           fee,
			"late_fee_rate_kind": feeKind,
		},
		PaymentDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (s *Service) List(ctx context.Context, actor identity.Identity, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.ListPaymentResponse{}, err
	}

	filter := domain.ListPaymentFilter{}
	if strings.TrimSpace(req.BookingID) != "" {
		bookingID, err := parseWith(req.BookingID, domain.ErrInvalidBooking)
		if err != nil {
			return domain.ListPaymentResponse{}, err
		}
		filter.BookingID = &bookingID
	}

	page := req.Page.Normalize()
	payments, total, err := s.repo.List(ctx, s.db, tenantID, filter, page)
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	return domain.ListPaymentResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Payments: payments,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, actor identity.Identity, req domain.GetPaymentRequest) (domain.Payment, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Payment{}, err
	}

	id, err := parseWith(req.ID, domain.ErrInvalidID)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil || payment.Status == domain.StatusDeleted {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func parseWith(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invalid
	}
	return id, nil
}

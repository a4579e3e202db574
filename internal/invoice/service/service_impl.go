package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/config"
	customerdomain "github.com/fleetops/rentdesk/internal/customer/domain"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/fleetops/rentdesk/internal/invoice/domain"
	"github.com/fleetops/rentdesk/internal/notification"
	"github.com/fleetops/rentdesk/pkg/db"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Rental    *config.RentalConfigHolder
	Authz     authzdomain.Service
	Repo      domain.Repository
	Customers customerdomain.Repository
	Notifier  notification.Notifier
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	rental    *config.RentalConfigHolder
	authz     authzdomain.Service
	repo      domain.Repository
	customers customerdomain.Repository
	notifier  notification.Notifier
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		rental:    p.Rental,
		authz:     p.Authz,
		repo:      p.Repo,
		customers: p.Customers,
		notifier:  p.Notifier,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// recompute restores the financial invariant after subtotal or rate changes.
func recompute(invoice *domain.Invoice) {
	invoice.VATAmount = round2(invoice.Subtotal * invoice.VATRate / 100)
	invoice.TotalAmount = invoice.Subtotal + invoice.VATAmount
}

func (s *Service) nextInvoiceNumber() string {
	prefix := s.rental.Current().InvoiceNumberPrefix
	id := ulid.MustNew(ulid.Timestamp(s.clock.Now().UTC()), ulid.DefaultEntropy())
	return fmt.Sprintf("%s-%s", prefix, id.String())
}

func (s *Service) Create(ctx context.Context, actor identity.Identity, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.Invoice{}, err
	}

	bookingID, err := parseWith(req.BookingID, domain.ErrInvalidBooking)
	if err != nil {
		return domain.Invoice{}, err
	}
	customerID, err := parseWith(req.CustomerID, domain.ErrInvalidCustomer)
	if err != nil {
		return domain.Invoice{}, err
	}
	if req.Subtotal < 0 {
		return domain.Invoice{}, domain.ErrInvalidSubtotal
	}
	if req.VATRate < 0 || req.VATRate > 100 {
		return domain.Invoice{}, domain.ErrInvalidVATRate
	}

	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.rental.Current().DefaultCurrency
	}

	now := s.clock.Now().UTC()
	invoice := domain.Invoice{
		ID:            s.genID.Generate(),
		BookingID:     bookingID,
		CustomerID:    customerID,
		TenantID:      tenantID,
		InvoiceNumber: s.nextInvoiceNumber(),
		Status:        domain.StatusDraft,
		Subtotal:      req.Subtotal,
		VATRate:       req.VATRate,
		CurrencyCode:  currency,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	recompute(&invoice)

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		return domain.Invoice{}, err
	}
	return invoice, nil
}

func (s *Service) CreateAuto(ctx context.Context, req domain.CreateAutoRequest) (domain.Invoice, error) {
	if req.TenantID == 0 || req.BookingID == 0 || req.CustomerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidBooking
	}
	if req.Subtotal < 0 {
		return domain.Invoice{}, domain.ErrInvalidSubtotal
	}

	now := s.clock.Now().UTC()
	invoice := domain.Invoice{
		ID:              s.genID.Generate(),
		BookingID:       req.BookingID,
		CustomerID:      req.CustomerID,
		TenantID:        req.TenantID,
		InvoiceNumber:   s.nextInvoiceNumber(),
		Status:          domain.StatusDraft,
		Subtotal:        req.Subtotal,
		VATRate:         0,
		CurrencyCode:    s.rental.Current().DefaultCurrency,
		IsAutoGenerated: true,
		Metadata:        datatypes.JSONMap{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	recompute(&invoice)

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		return domain.Invoice{}, err
	}
	return invoice, nil
}

func (s *Service) Edit(ctx context.Context, actor identity.Identity, req domain.EditInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.findForActor(ctx, actor, req.TenantID, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status != domain.StatusDraft {
		return domain.Invoice{}, domain.ErrNotDraft
	}

	dirtyFinancials := false
	if req.Patch.Subtotal != nil {
		if *req.Patch.Subtotal < 0 {
			return domain.Invoice{}, domain.ErrInvalidSubtotal
		}
		invoice.Subtotal = *req.Patch.Subtotal
		dirtyFinancials = true
	}
	if req.Patch.VATRate != nil {
		if *req.Patch.VATRate < 0 || *req.Patch.VATRate > 100 {
			return domain.Invoice{}, domain.ErrInvalidVATRate
		}
		invoice.VATRate = *req.Patch.VATRate
		dirtyFinancials = true
	}
	if req.Patch.CurrencyCode != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Patch.CurrencyCode))
		if currency != "" {
			invoice.CurrencyCode = currency
		}
	}
	if dirtyFinancials {
		recompute(invoice)
	}

	invoice.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) Issue(ctx context.Context, actor identity.Identity, req domain.IssueInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.findForActor(ctx, actor, req.TenantID, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status != domain.StatusDraft {
		return domain.Invoice{}, domain.ErrNotDraft
	}

	now := s.clock.Now().UTC()
	invoice.Status = domain.StatusIssued
	invoice.IssuedAt = &now
	invoice.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}

	// Advisory side effect: the status change stands even if the customer
	// cannot be notified.
	s.notifyIssued(ctx, invoice)

	return *invoice, nil
}

func (s *Service) notifyIssued(ctx context.Context, invoice *domain.Invoice) {
	customer, err := s.customers.FindByID(ctx, s.db, invoice.TenantID, invoice.CustomerID)
	if err != nil || customer == nil {
		s.log.Warn("invoice issued but customer lookup failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Int64("customer_id", int64(invoice.CustomerID)),
			zap.Error(err),
		)
		return
	}

	err = s.notifier.InvoiceIssued(ctx, notification.InvoiceIssuedEvent{
		InvoiceNumber: invoice.InvoiceNumber,
		TotalAmount:   invoice.TotalAmount,
		CurrencyCode:  invoice.CurrencyCode,
		CustomerName:  customer.FullName,
		CustomerEmail: customer.Email,
	})
	if err != nil {
		s.log.Warn("invoice issued notification failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err),
		)
	}
}

func (s *Service) Cancel(ctx context.Context, actor identity.Identity, req domain.CancelInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.findForActor(ctx, actor, req.TenantID, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status != domain.StatusDraft {
		return domain.Invoice{}, domain.ErrNotDraft
	}

	invoice.Status = domain.StatusCancelled
	invoice.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, actor identity.Identity, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	tenantID, err := parseWith(req.TenantID, domain.ErrInvalidTenant)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	filter := domain.ListInvoiceFilter{Status: strings.TrimSpace(req.Status)}
	if strings.TrimSpace(req.BookingID) != "" {
		bookingID, err := parseWith(req.BookingID, domain.ErrInvalidBooking)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		filter.BookingID = &bookingID
	}

	page := req.Page.Normalize()
	invoices, total, err := s.repo.List(ctx, s.db, tenantID, filter, page)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	return domain.ListInvoiceResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Invoices: invoices,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, actor identity.Identity, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.findForActor(ctx, actor, req.TenantID, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) findForActor(ctx context.Context, actor identity.Identity, rawTenantID, rawID string) (*domain.Invoice, error) {
	tenantID, err := parseWith(rawTenantID, domain.ErrInvalidTenant)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireTenantAccess(ctx, actor, tenantID); err != nil {
		return nil, err
	}

	id, err := parseWith(rawID, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.Status == domain.StatusCancelled {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func parseWith(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invalid
	}
	return id, nil
}

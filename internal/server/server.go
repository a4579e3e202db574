package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/authz"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/booking"
	bookingdomain "github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/internal/config"
	"github.com/fleetops/rentdesk/internal/customer"
	customerdomain "github.com/fleetops/rentdesk/internal/customer/domain"
	"github.com/fleetops/rentdesk/internal/invoice"
	invoicedomain "github.com/fleetops/rentdesk/internal/invoice/domain"
	"github.com/fleetops/rentdesk/internal/notification"
	"github.com/fleetops/rentdesk/internal/observability"
	obslogger "github.com/fleetops/rentdesk/internal/observability/logger"
	obsmetrics "github.com/fleetops/rentdesk/internal/observability/metrics"
	obstracing "github.com/fleetops/rentdesk/internal/observability/tracing"
	"github.com/fleetops/rentdesk/internal/payment"
	paymentdomain "github.com/fleetops/rentdesk/internal/payment/domain"
	"github.com/fleetops/rentdesk/internal/providers/email"
	"github.com/fleetops/rentdesk/internal/tenant"
	tenantdomain "github.com/fleetops/rentdesk/internal/tenant/domain"
	"github.com/fleetops/rentdesk/internal/vehicle"
	vehicledomain "github.com/fleetops/rentdesk/internal/vehicle/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authz.Module,
	tenant.Module,
	customer.Module,
	vehicle.Module,
	booking.Module,
	payment.Module,
	invoice.Module,
	email.Module,
	notification.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	return payload.Type, payload.Message
}

func registerGin(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	authzSvc    authzdomain.Service
	tenantSvc   tenantdomain.Service
	customerSvc customerdomain.Service
	vehicleSvc  vehicledomain.Service
	bookingSvc  bookingdomain.Service
	paymentSvc  paymentdomain.Service
	invoiceSvc  invoicedomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	Registry    *prometheus.Registry
	AuthzSvc    authzdomain.Service
	TenantSvc   tenantdomain.Service
	CustomerSvc customerdomain.Service
	VehicleSvc  vehicledomain.Service
	BookingSvc  bookingdomain.Service
	PaymentSvc  paymentdomain.Service
	InvoiceSvc  invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		authzSvc:    p.AuthzSvc,
		tenantSvc:   p.TenantSvc,
		customerSvc: p.CustomerSvc,
		vehicleSvc:  p.VehicleSvc,
		bookingSvc:  p.BookingSvc,
		paymentSvc:  p.PaymentSvc,
		invoiceSvc:  p.InvoiceSvc,
	}

	p.Gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(IdentityRequired())

	bookings := api.Group("/bookings")
	{
		bookings.GET("", s.RequirePermission(authzdomain.CodeBookingView), s.ListBookings)
		bookings.POST("", s.RequirePermission(authzdomain.CodeBookingCreate), s.CreateBooking)
		bookings.GET("/:id", s.RequirePermission(authzdomain.CodeBookingView), s.GetBookingByID)
		bookings.PATCH("/:id", s.RequirePermission(authzdomain.CodeBookingUpdate), s.UpdateBooking)
		bookings.POST("/delete", s.RequirePermission(authzdomain.CodeBookingDelete), s.SoftDeleteBookings)
	}

	payments := api.Group("/payments")
	{
		payments.GET("", s.RequirePermission(authzdomain.CodePaymentView), s.ListPayments)
		payments.POST("", s.RequirePermission(authzdomain.CodePaymentCreate), s.RecordPayment)
		payments.GET("/:id", s.RequirePermission(authzdomain.CodePaymentView), s.GetPaymentByID)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", s.RequirePermission(authzdomain.CodeInvoiceView), s.ListInvoices)
		invoices.POST("", s.RequirePermission(authzdomain.CodeInvoiceCreate), s.CreateInvoice)
		invoices.GET("/:id", s.RequirePermission(authzdomain.CodeInvoiceView), s.GetInvoiceByID)
		invoices.PATCH("/:id", s.RequirePermission(authzdomain.CodeInvoiceUpdate), s.EditInvoice)
		invoices.POST("/:id/issue", s.RequirePermission(authzdomain.CodeInvoiceIssue), s.IssueInvoice)
		invoices.POST("/:id/cancel", s.RequirePermission(authzdomain.CodeInvoiceCancel), s.CancelInvoice)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", s.RequirePermission(authzdomain.CodeCustomerView), s.ListCustomers)
		customers.POST("", s.RequirePermission(authzdomain.CodeCustomerCreate), s.CreateCustomer)
		customers.GET("/:id", s.RequirePermission(authzdomain.CodeCustomerView), s.GetCustomerByID)
		customers.PATCH("/:id", s.RequirePermission(authzdomain.CodeCustomerUpdate), s.UpdateCustomer)
		customers.DELETE("/:id", s.RequirePermission(authzdomain.CodeCustomerDelete), s.DeleteCustomer)
	}

	vehicles := api.Group("/vehicles")
	{
		vehicles.GET("", s.RequirePermission(authzdomain.CodeVehicleView), s.ListVehicles)
		vehicles.POST("", s.RequirePermission(authzdomain.CodeVehicleCreate), s.CreateVehicle)
		vehicles.GET("/:id", s.RequirePermission(authzdomain.CodeVehicleView), s.GetVehicleByID)
		vehicles.PATCH("/:id", s.RequirePermission(authzdomain.CodeVehicleUpdate), s.UpdateVehicle)
		vehicles.DELETE("/:id", s.RequirePermission(authzdomain.CodeVehicleDelete), s.DeleteVehicle)
	}

	tenants := api.Group("/tenants")
	{
		tenants.GET("", s.RequirePermission(authzdomain.CodeTenantView), s.ListTenants)
		tenants.GET("/:id", s.RequirePermission(authzdomain.CodeTenantView), s.GetTenantByID)
		tenants.GET("/:id/branches", s.RequirePermission(authzdomain.CodeTenantView), s.ListBranches)
	}
}

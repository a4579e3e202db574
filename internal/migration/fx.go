package migration

import (
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	bookingdomain "github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/internal/config"
	customerdomain "github.com/fleetops/rentdesk/internal/customer/domain"
	invoicedomain "github.com/fleetops/rentdesk/internal/invoice/domain"
	paymentdomain "github.com/fleetops/rentdesk/internal/payment/domain"
	"github.com/fleetops/rentdesk/internal/seed"
	tenantdomain "github.com/fleetops/rentdesk/internal/tenant/domain"
	vehicledomain "github.com/fleetops/rentdesk/internal/vehicle/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned migrations are postgres SQL; other dialects
			// get their schema straight from the models.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&tenantdomain.Branch{},
				&authzdomain.Role{},
				&authzdomain.Permission{},
				&authzdomain.RolePermission{},
				&authzdomain.StaffUser{},
				&customerdomain.Customer{},
				&vehicledomain.Vehicle{},
				&bookingdomain.Booking{},
				&invoicedomain.Invoice{},
				&paymentdomain.Payment{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaults {
			return seed.EnsureDefaults(conn)
		}
		return nil
	}),
)

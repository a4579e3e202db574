package customer

import (
	"github.com/fleetops/rentdesk/internal/customer/repository"
	"github.com/fleetops/rentdesk/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

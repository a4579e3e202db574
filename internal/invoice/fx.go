package invoice

import (
	"github.com/fleetops/rentdesk/internal/invoice/repository"
	"github.com/fleetops/rentdesk/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package tenant

import (
	"github.com/fleetops/rentdesk/internal/tenant/repository"
	"github.com/fleetops/rentdesk/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

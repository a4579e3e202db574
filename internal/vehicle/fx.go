package vehicle

import (
	"github.com/fleetops/rentdesk/internal/vehicle/repository"
	"github.com/fleetops/rentdesk/internal/vehicle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

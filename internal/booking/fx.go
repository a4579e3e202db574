package booking

import (
	"github.com/fleetops/rentdesk/internal/booking/repository"
	"github.com/fleetops/rentdesk/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

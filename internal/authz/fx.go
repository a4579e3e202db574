package authz

import (
	"github.com/fleetops/rentdesk/internal/authz/repository"
	"github.com/fleetops/rentdesk/internal/authz/service"
	"go.uber.org/fx"
)

var Module = fx.Module("authz.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

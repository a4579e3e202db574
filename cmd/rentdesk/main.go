package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/fleetops/rentdesk/internal/clock"
	"github.com/fleetops/rentdesk/internal/config"
	"github.com/fleetops/rentdesk/internal/migration"
	"github.com/fleetops/rentdesk/internal/observability"
	"github.com/fleetops/rentdesk/internal/server"
	"github.com/fleetops/rentdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	nodeID := int64(1)
	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	return node
}

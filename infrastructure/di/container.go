package di

import (
	"go.uber.org/zap"

	"feeder-workbench/application/commands/bus"
	querybus "feeder-workbench/application/queries/bus"
	"feeder-workbench/application/session"
	"feeder-workbench/application/workspace"
	"feeder-workbench/infrastructure/config"
	"feeder-workbench/infrastructure/events"
	"feeder-workbench/interfaces/http/rest"
	"feeder-workbench/pkg/observability"
	"feeder-workbench/pkg/ratelimit"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Collector
	Session     *session.Manager
	Workspace   *workspace.Workspace
	Journal     *events.Journal
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	RateLimiter *ratelimit.IPRateLimiter
	Router      *rest.Router
}

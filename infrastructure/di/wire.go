//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"feeder-workbench/application/ports"
	"feeder-workbench/infrastructure/config"
	"feeder-workbench/infrastructure/events"
	"feeder-workbench/infrastructure/httpclient"
)

// ClientSet builds the backend clients and binds them to their ports
var ClientSet = wire.NewSet(
	ProvideTokenStore,
	ProvideClientFactory,
	ProvideTopologyStoreClient,
	ProvideSimulationClient,
	ProvideIdentityClient,
	ProvidePaymentClient,
	wire.Bind(new(ports.TopologyStore), new(*httpclient.TopologyStoreClient)),
	wire.Bind(new(ports.ProfileCatalog), new(*httpclient.TopologyStoreClient)),
	wire.Bind(new(ports.SimulationEngine), new(*httpclient.SimulationClient)),
	wire.Bind(new(ports.IdentityService), new(*httpclient.IdentityClient)),
	wire.Bind(new(ports.PaymentService), new(*httpclient.PaymentClient)),
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideTracer,
	ClientSet,
	ProvideSessionManager,
	ProvideGate,
	ProvideJournal,
	wire.Bind(new(ports.EventPublisher), new(*events.Journal)),
	ProvideWorkspace,
	ProvideCache,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideRateLimiter,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}

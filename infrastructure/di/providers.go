package di

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feeder-workbench/application/commands/bus"
	commandhandlers "feeder-workbench/application/commands/handlers"
	"feeder-workbench/application/ports"
	querybus "feeder-workbench/application/queries/bus"
	queryhandlers "feeder-workbench/application/queries/handlers"
	"feeder-workbench/application/session"
	"feeder-workbench/application/workspace"
	domainconfig "feeder-workbench/domain/config"
	"feeder-workbench/domain/permissions"
	"feeder-workbench/infrastructure/cache"
	"feeder-workbench/infrastructure/config"
	"feeder-workbench/infrastructure/events"
	"feeder-workbench/infrastructure/httpclient"
	"feeder-workbench/infrastructure/tokenstore"
	"feeder-workbench/interfaces/http/rest"
	"feeder-workbench/pkg/observability"
	"feeder-workbench/pkg/ratelimit"
)

const serviceName = "feeder-workbench"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}

// ProvideDomainConfig picks the business rules for the environment
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	rules := domainconfig.LoadDomainConfig(cfg.Environment)
	rules.ScenarioCacheTTL = cfg.ScenarioCacheTTL
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("workbench")
}

// ProvideTracer sets up OpenTelemetry; the cleanup flushes pending spans
func ProvideTracer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.Tracer, func(), error) {
	tracer, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.TracingEndpoint,
		SampleRate:  cfg.TracingSampleRate,
		Enabled:     cfg.EnableTracing,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tracer, cleanup, nil
}

// ProvideTokenStore keeps the bearer token in the configured file,
// or in memory when no file is configured
func ProvideTokenStore(cfg *config.Config) (ports.TokenStore, error) {
	if cfg.TokenFile == "" {
		return tokenstore.NewMemoryStore(), nil
	}
	store, err := tokenstore.NewFileStore(cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ClientFactory builds one JSON client per backend
type ClientFactory struct {
	tokens  ports.TokenStore
	metrics *observability.Collector
	tracer  *observability.Tracer
	logger  *zap.Logger
}

func (f ClientFactory) build(service, baseURL string, timeout time.Duration) *httpclient.Client {
	return httpclient.NewClient(httpclient.Options{
		Service: service,
		BaseURL: baseURL,
		Timeout: timeout,
		Tokens:  f.tokens,
		Metrics: f.metrics,
		Tracer:  f.tracer,
		Logger:  f.logger,
	})
}

// ProvideClientFactory collects what every backend client shares
func ProvideClientFactory(
	tokens ports.TokenStore,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) ClientFactory {
	return ClientFactory{tokens: tokens, metrics: metrics, tracer: tracer, logger: logger}
}

// ProvideTopologyStoreClient creates the topology store client
func ProvideTopologyStoreClient(cfg *config.Config, f ClientFactory) *httpclient.TopologyStoreClient {
	return httpclient.NewTopologyStoreClient(f.build("topology-store", cfg.TopologyStoreURL, cfg.HTTPTimeout))
}

// ProvideSimulationClient creates the simulation engine client behind its circuit breaker
func ProvideSimulationClient(cfg *config.Config, f ClientFactory) *httpclient.SimulationClient {
	return httpclient.NewSimulationClient(
		f.build("simulation-engine", cfg.SimulationURL, cfg.SimulationTimeout),
		httpclient.BreakerSettings{
			MaxRequests:      cfg.BreakerMaxRequests,
			Interval:         cfg.BreakerInterval,
			Timeout:          cfg.BreakerTimeout,
			FailureThreshold: cfg.BreakerFailureThreshold,
		},
		f.logger,
	)
}

// ProvideIdentityClient creates the identity service client
func ProvideIdentityClient(cfg *config.Config, f ClientFactory) *httpclient.IdentityClient {
	return httpclient.NewIdentityClient(f.build("identity", cfg.IdentityURL, cfg.HTTPTimeout))
}

// ProvidePaymentClient creates the payment service client
func ProvidePaymentClient(cfg *config.Config, f ClientFactory) *httpclient.PaymentClient {
	return httpclient.NewPaymentClient(f.build("payments", cfg.PaymentURL, cfg.HTTPTimeout))
}

// ProvideSessionManager creates the session manager
func ProvideSessionManager(identitySvc ports.IdentityService, tokens ports.TokenStore, logger *zap.Logger) *session.Manager {
	return session.NewManager(identitySvc, tokens, logger)
}

// ProvideGate creates the permission gate
func ProvideGate(rules *domainconfig.DomainConfig) *permissions.Gate {
	return permissions.NewGate(rules)
}

// ProvideJournal creates the domain event journal
func ProvideJournal(metrics *observability.Collector, logger *zap.Logger) *events.Journal {
	return events.NewJournal(events.DefaultCapacity, metrics, logger)
}

// ProvideWorkspace creates the operator's workspace
func ProvideWorkspace(
	store ports.TopologyStore,
	engine ports.SimulationEngine,
	publisher ports.EventPublisher,
	sess *session.Manager,
	gate *permissions.Gate,
	rules *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*workspace.Workspace, error) {
	return workspace.New(workspace.Dependencies{
		Store:     store,
		Engine:    engine,
		Publisher: publisher,
		Session:   sess,
		Gate:      gate,
		Rules:     rules,
		Metrics:   metrics,
		Logger:    logger,
	})
}

// ProvideCache creates the catalog cache; the cleanup stops its sweeper
func ProvideCache(metrics *observability.Collector) (*cache.MemoryCache, func()) {
	c := cache.NewMemoryCache(time.Minute, metrics)
	return c, c.Stop
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	ws *workspace.Workspace,
	sess *session.Manager,
	payments ports.PaymentService,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.TracingMiddleware(tracer),
	)
	if err := commandhandlers.NewHandlers(ws, sess, payments).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	ws *workspace.Workspace,
	sess *session.Manager,
	gate *permissions.Gate,
	profiles ports.ProfileCatalog,
	payments ports.PaymentService,
	c *cache.MemoryCache,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.LoggingMiddleware(logger, time.Second))

	var caching *querybus.CachingMiddleware
	if cfg.ScenarioCacheTTL > 0 {
		caching = querybus.NewCachingMiddleware(c, cfg.ScenarioCacheTTL)
	}
	handlers := queryhandlers.NewHandlers(ws, sess, gate, profiles, payments)
	if err := handlers.Register(queryBus, caching); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideRateLimiter creates the per-address limiter, nil when disabled
func ProvideRateLimiter(cfg *config.Config) *ratelimit.IPRateLimiter {
	if cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	return ratelimit.NewIPRateLimiter(cfg.RateLimitPerMinute)
}

// ProvideRouter creates the REST facade
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	limiter *ratelimit.IPRateLimiter,
	metrics *observability.Collector,
	journal *events.Journal,
	simulation *httpclient.SimulationClient,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *rest.Router {
	opts := rest.Options{
		CORSOrigins: cfg.CORSOrigins,
		EnableCORS:  cfg.EnableCORS,
		Tracer:      tracer,
		Feed:        journal,
		Debug:       cfg.IsDevelopment(),
		Checks: map[string]rest.ReadinessCheck{
			"simulation_breaker": func(context.Context) error {
				return simulation.Ready()
			},
		},
	}
	if limiter != nil {
		opts.Limiter = limiter
	}
	if cfg.EnableMetrics {
		opts.Metrics = metrics
	}
	return rest.NewRouter(commandBus, queryBus, opts, logger)
}

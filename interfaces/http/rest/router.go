// Package rest is the HTTP facade a rendering front-end drives.
// Every canvas action is one request.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"feeder-workbench/application/commands/bus"
	querybus "feeder-workbench/application/queries/bus"
	"feeder-workbench/interfaces/http/rest/handlers"
	"feeder-workbench/interfaces/http/rest/middleware"
	"feeder-workbench/pkg/common"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/observability"
)

// ReadinessCheck reports whether a dependency can serve requests
type ReadinessCheck func(ctx context.Context) error

// Options configures the router
type Options struct {
	CORSOrigins []string
	EnableCORS  bool
	// Limiter throttles per client address; nil disables throttling
	Limiter middleware.Limiter
	// Metrics enables request metrics and /metrics; nil disables both
	Metrics *observability.Collector
	// Tracer wraps each request in a span; nil disables request spans
	Tracer middleware.SpanStarter
	Feed   handlers.EventFeed
	Checks map[string]ReadinessCheck
	Debug  bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	opts       Options
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		opts:       opts,
		errors:     pkgerrors.NewErrorHandler(logger, opts.Debug),
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	if rt.opts.Tracer != nil {
		router.Use(middleware.Tracing(rt.opts.Tracer))
	}
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Metrics != nil {
		router.Use(middleware.Metrics(rt.opts.Metrics))
	}
	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.Metrics.Handler())
	}

	d := handlers.Dispatcher{
		Commands: rt.commandBus,
		Queries:  rt.queryBus,
		Errors:   rt.errors,
		Logger:   rt.logger,
	}
	canvas := handlers.NewCanvasHandler(d)
	topologies := handlers.NewTopologyHandler(d)
	simulations := handlers.NewSimulationHandler(d)
	session := handlers.NewSessionHandler(d)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.opts.Limiter != nil {
			r.Use(middleware.RateLimit(rt.opts.Limiter, rt.errors))
		}

		r.Route("/canvas", func(r chi.Router) {
			r.Get("/", canvas.GetCanvas)
			r.Patch("/", canvas.UpdateTopology)
			r.Get("/reports", canvas.GetReports)
			r.Get("/changes", canvas.GetChanges)
			r.Post("/draft", canvas.NewDraft)
			r.Delete("/overlay", canvas.ClearOverlay)
			r.Post("/save", topologies.Save)
			r.Post("/load", topologies.Load)

			r.Post("/nodes", canvas.AddNode)
			r.Route("/nodes/{nodeID}", func(r chi.Router) {
				r.Put("/position", canvas.MoveNode)
				r.Put("/name", canvas.RenameNode)
				r.Put("/properties", canvas.UpdateNodeProperties)
				r.Delete("/", canvas.RemoveNode)
			})

			r.Post("/edges", canvas.ConnectEdge)
			r.Delete("/edges/{edgeID}", canvas.RemoveEdge)
		})

		r.Route("/topologies", func(r chi.Router) {
			r.Get("/", topologies.List)
			r.Delete("/{topologyID}", topologies.Delete)
		})

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/powerflow", simulations.RunPowerflow)
			r.Post("/esg", simulations.RunESG)
			r.Post("/penetration", simulations.RunPenetration)
			r.Post("/reliability", simulations.RunReliability)
		})
		r.Get("/scenarios", simulations.ListScenarios)
		r.Get("/profiles", simulations.ListProfiles)
		r.Get("/profiles/{profileType}", simulations.GetProfile)

		r.Get("/permissions", session.GetPermissions)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", session.GetSession)
			r.Post("/auth-url", session.AuthURL)
			r.Post("/login", session.Login)
			r.Post("/refresh", session.Refresh)
			r.Post("/logout", session.Logout)
		})
		r.Route("/payments", func(r chi.Router) {
			r.Post("/checkout", session.Checkout)
			r.Get("/history", session.PaymentHistory)
		})

		if rt.opts.Feed != nil {
			r.Get("/events", handlers.NewEventsHandler(rt.opts.Feed, rt.errors).List)
		}
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck runs every dependency check; any failure answers 503
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(rt.opts.Checks))
	for name, check := range rt.opts.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	common.RespondJSON(w, r, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}

// Package handlers answers workbench queries from the workspace, the session
// and the external catalogs.
package handlers

import (
	"context"

	"feeder-workbench/application/ports"
	"feeder-workbench/application/queries"
	"feeder-workbench/application/queries/bus"
	"feeder-workbench/application/session"
	"feeder-workbench/application/workspace"
	"feeder-workbench/domain/permissions"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Handlers answers workbench queries
type Handlers struct {
	workspace *workspace.Workspace
	session   *session.Manager
	gate      *permissions.Gate
	profiles  ports.ProfileCatalog
	payments  ports.PaymentService
}

// NewHandlers creates the query handlers
func NewHandlers(
	ws *workspace.Workspace,
	sess *session.Manager,
	gate *permissions.Gate,
	profiles ports.ProfileCatalog,
	payments ports.PaymentService,
) *Handlers {
	return &Handlers{
		workspace: ws,
		session:   sess,
		gate:      gate,
		profiles:  profiles,
		payments:  payments,
	}
}

// Register registers every query on the bus. Catalog queries go through
// the cache when one is given.
func (h *Handlers) Register(b *bus.QueryBus, cache *bus.CachingMiddleware) error {
	cached := func(handler bus.QueryHandler) bus.QueryHandler {
		if cache == nil {
			return handler
		}
		return cache.Wrap(handler)
	}

	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetCanvasQuery{}, bus.HandlerFor(h.GetCanvas)},
		{queries.GetReportsQuery{}, bus.HandlerFor(h.GetReports)},
		{queries.GetChangesQuery{}, bus.HandlerFor(h.GetChanges)},
		{queries.ListTopologiesQuery{}, bus.HandlerFor(h.ListTopologies)},
		{queries.GetPermissionsQuery{}, bus.HandlerFor(h.GetPermissions)},
		{queries.ListScenariosQuery{}, cached(bus.HandlerFor(h.ListScenarios))},
		{queries.ListProfilesQuery{}, cached(bus.HandlerFor(h.ListProfiles))},
		{queries.GetProfileQuery{}, cached(bus.HandlerFor(h.GetProfile))},
		{queries.GetSessionQuery{}, bus.HandlerFor(h.GetSession)},
		{queries.GetAuthURLQuery{}, bus.HandlerFor(h.GetAuthURL)},
		{queries.PaymentHistoryQuery{}, bus.HandlerFor(h.PaymentHistory)},
	}
	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) GetCanvas(_ context.Context, _ queries.GetCanvasQuery) (interface{}, error) {
	return h.workspace.Canvas(), nil
}

func (h *Handlers) GetReports(_ context.Context, _ queries.GetReportsQuery) (interface{}, error) {
	return h.workspace.Reports(), nil
}

func (h *Handlers) GetChanges(_ context.Context, _ queries.GetChangesQuery) (interface{}, error) {
	return h.workspace.Changes(), nil
}

func (h *Handlers) ListTopologies(ctx context.Context, _ queries.ListTopologiesQuery) (interface{}, error) {
	docs, err := h.workspace.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]queries.TopologySummaryDTO, 0, len(docs))
	for _, doc := range docs {
		out = append(out, queries.TopologySummaryDTO{
			ID:          doc.ID,
			Name:        doc.Name,
			Description: doc.Description,
			ProfileType: doc.ProfileType,
			NodeCount:   len(doc.Nodes),
			LineCount:   len(doc.Lines),
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	return out, nil
}

func (h *Handlers) GetPermissions(_ context.Context, _ queries.GetPermissionsQuery) (interface{}, error) {
	dto := queries.PermissionsDTO{
		Features:    h.workspace.Features(),
		Topologies:  h.workspace.Allowance(),
		CanSimulate: h.gate.CanRunSimulation(h.session),
	}
	if q := h.session.Quota(); q != nil {
		dto.SimulationsMax = q.MaxSimulationsPerDay
		dto.SimulationsUsed = q.UsedSimulationsToday
	}
	return dto, nil
}

func (h *Handlers) ListScenarios(ctx context.Context, _ queries.ListScenariosQuery) (interface{}, error) {
	return h.workspace.Scenarios(ctx)
}

func (h *Handlers) ListProfiles(ctx context.Context, _ queries.ListProfilesQuery) (interface{}, error) {
	profiles, err := h.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, pkgerrors.NewEmptyCollection("profiles")
	}
	return profiles, nil
}

func (h *Handlers) GetProfile(ctx context.Context, q queries.GetProfileQuery) (interface{}, error) {
	return h.profiles.GetProfile(ctx, q.ProfileType)
}

func (h *Handlers) GetSession(_ context.Context, _ queries.GetSessionQuery) (interface{}, error) {
	return h.session.View(), nil
}

func (h *Handlers) GetAuthURL(ctx context.Context, q queries.GetAuthURLQuery) (interface{}, error) {
	return h.session.AuthURL(ctx, q.Provider, q.State)
}

func (h *Handlers) PaymentHistory(ctx context.Context, _ queries.PaymentHistoryQuery) (interface{}, error) {
	if !h.session.IsAuthenticated() {
		return nil, pkgerrors.NewSessionExpired("log in to view payments")
	}
	payments, err := h.payments.History(ctx)
	if err != nil {
		h.session.HandleError(err)
		return nil, err
	}
	return payments, nil
}

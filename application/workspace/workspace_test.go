package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	"feeder-workbench/application/ports/mocks"
	"feeder-workbench/application/session"
	"feeder-workbench/domain/core/entities"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/identity"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/observability"
)

type harness struct {
	ws        *Workspace
	store     *mocks.MockTopologyStore
	engine    *mocks.MockSimulationEngine
	identity  *mocks.MockIdentityService
	publisher *mocks.MockEventPublisher
	session   *session.Manager
	metrics   *observability.Collector
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	h := &harness{
		store:     new(mocks.MockTopologyStore),
		engine:    new(mocks.MockSimulationEngine),
		identity:  new(mocks.MockIdentityService),
		publisher: new(mocks.MockEventPublisher),
		metrics:   observability.NewCollector("workspace_test"),
	}
	h.publisher.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)
	h.session = session.NewManager(h.identity, mocks.NewMemoryTokenStore(token), zap.NewNop())

	ws, err := New(Dependencies{
		Store:     h.store,
		Engine:    h.engine,
		Publisher: h.publisher,
		Session:   h.session,
		Metrics:   h.metrics,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	h.ws = ws
	return h
}

func premium(usedTopologies, maxTopologies, usedSims, maxSims int) *identity.Profile {
	return &identity.Profile{
		User: identity.User{ID: "u1", SubscriptionTier: identity.TierPremium},
		Quota: &identity.Quota{
			MaxTopologies:          maxTopologies,
			UsedTopologies:         usedTopologies,
			MaxSimulationsPerDay:   maxSims,
			UsedSimulationsToday:   usedSims,
			CanUseAdvancedSecurity: true,
		},
	}
}

func pos(x, y float64) valueobjects.Position {
	return valueobjects.Position{X: x, Y: y}
}

// twoNodes builds A -> B and returns their ids
func twoNodes(t *testing.T, ws *Workspace) (NodeView, NodeView, EdgeView) {
	t.Helper()
	ctx := context.Background()
	a, err := ws.AddNode(ctx, valueobjects.AssetBus, pos(0, 0), "A")
	require.NoError(t, err)
	b, err := ws.AddNode(ctx, valueobjects.AssetTransformer, pos(100, 0), "B")
	require.NoError(t, err)
	e, err := ws.ConnectEdge(ctx, a.ID, b.ID, "")
	require.NoError(t, err)
	return a, b, e
}

func TestCanvasEdits(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	a, b, e := twoNodes(t, h.ws)

	require.NoError(t, h.ws.MoveNode(ctx, a.ID, pos(5, 6)))
	require.NoError(t, h.ws.RenameNode(ctx, b.ID, "Substation"))
	require.NoError(t, h.ws.UpdateNodeProperties(ctx, b.ID, map[string]interface{}{"kva": 500.0}))

	canvas := h.ws.Canvas()
	require.Len(t, canvas.Nodes, 2)
	require.Len(t, canvas.Edges, 1)
	assert.Equal(t, pos(5, 6), canvas.Nodes[0].Position)
	assert.Equal(t, "Substation", canvas.Nodes[1].DisplayName)
	assert.Equal(t, 500.0, canvas.Nodes[1].Properties["kva"])
	assert.Equal(t, e.ID, canvas.Edges[0].ID)
	assert.False(t, canvas.Persisted)

	require.NoError(t, h.ws.RemoveNode(ctx, a.ID))
	canvas = h.ws.Canvas()
	assert.Len(t, canvas.Nodes, 1)
	assert.Empty(t, canvas.Edges)

	h.publisher.AssertCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestConnectEdge_InvalidReferenceLeavesCanvas(t *testing.T) {
	h := newHarness(t, "")
	a, _, _ := twoNodes(t, h.ws)
	before := h.ws.Canvas()

	_, err := h.ws.ConnectEdge(context.Background(), a.ID, "bus-missing", "")
	assert.True(t, pkgerrors.IsInvalidReference(err))
	assert.Equal(t, before.Version, h.ws.Canvas().Version)
	assert.Len(t, h.ws.Canvas().Edges, 1)
}

func TestSave_CreateThenUpdate(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.store.On("Create", ctx, mock.MatchedBy(func(doc ports.TopologyDocument) bool {
		return doc.ID == "" && len(doc.Nodes) == 2 && len(doc.Lines) == 1
	})).Return(&ports.TopologyDocument{ID: "topo-1", CreatedAt: created, UpdatedAt: created}, nil).Once()

	out, err := h.ws.Save(ctx)
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.True(t, out.Applied)
	assert.Equal(t, "topo-1", h.ws.Canvas().TopologyID)

	h.store.On("Update", ctx, "topo-1", mock.MatchedBy(func(doc ports.TopologyDocument) bool {
		return doc.ID == "topo-1"
	})).Return(&ports.TopologyDocument{ID: "topo-1"}, nil).Once()

	out, err = h.ws.Save(ctx)
	require.NoError(t, err)
	assert.False(t, out.Created)
	h.store.AssertExpectations(t)
}

func TestSave_TopologyQuotaBlocksBeforeNetwork(t *testing.T) {
	h := newHarness(t, "tok")
	ctx := context.Background()
	h.identity.On("Me", mock.Anything).Return(premium(3, 3, 0, 10), nil)
	require.NoError(t, h.session.Restore(ctx))
	twoNodes(t, h.ws)

	_, err := h.ws.Save(ctx)
	assert.True(t, pkgerrors.IsPermissionDenied(err))
	h.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GateDenials.WithLabelValues("create_topology")))
	assert.Empty(t, h.ws.Canvas().InFlight)
}

func TestSave_SessionExpiredForcesLogout(t *testing.T) {
	h := newHarness(t, "tok")
	ctx := context.Background()
	h.identity.On("Me", mock.Anything).Return(premium(0, 5, 0, 10), nil)
	require.NoError(t, h.session.Restore(ctx))
	twoNodes(t, h.ws)

	h.store.On("Create", ctx, mock.Anything).Return(nil, pkgerrors.NewSessionExpired(""))

	_, err := h.ws.Save(ctx)
	assert.True(t, pkgerrors.IsSessionExpired(err))
	assert.False(t, h.session.IsAuthenticated())
	assert.False(t, h.ws.Canvas().Persisted)
}

func TestLoad_FirstTopology(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	h.store.On("List", ctx).Return([]ports.TopologyDocument{
		{
			ID:          "t-9",
			Name:        "Main St",
			ProfileType: "rural",
			Nodes: []ports.NodeDocument{
				{ID: "bus-1", Type: "bus", Name: "Source"},
				{ID: "der-7", Type: "der", Name: "PV"},
			},
			Lines: []ports.LineDocument{{ID: "line-1", FromNodeID: "bus-1", ToNodeID: "der-7"}},
		},
		{ID: "t-8", Name: "Older"},
	}, nil)

	view, err := h.ws.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "t-9", view.TopologyID)
	assert.Equal(t, valueobjects.ProfileRural, view.ProfileType)
	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Edges, 1)

	// ids loaded from persistence are never handed out again
	n, err := h.ws.AddNode(ctx, valueobjects.AssetBus, pos(0, 0), "")
	require.NoError(t, err)
	assert.NotEqual(t, valueobjects.NodeID("bus-1"), n.ID)
}

func TestLoad_EmptyStore(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)
	h.store.On("List", ctx).Return([]ports.TopologyDocument{}, nil)

	_, err := h.ws.Load(ctx, "")
	assert.True(t, pkgerrors.IsEmptyCollection(err))
	assert.Len(t, h.ws.Canvas().Nodes, 2)
}

func TestLoad_DanglingLineKeepsCanvas(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)
	h.store.On("Get", ctx, "bad").Return(&ports.TopologyDocument{
		ID:    "bad",
		Name:  "Broken",
		Nodes: []ports.NodeDocument{{ID: "bus-1", Type: "bus"}},
		Lines: []ports.LineDocument{{ID: "l1", FromNodeID: "bus-1", ToNodeID: "ghost"}},
	}, nil)

	_, err := h.ws.Load(ctx, "bad")
	assert.True(t, pkgerrors.IsIntegrityViolation(err))
	assert.Len(t, h.ws.Canvas().Nodes, 2)
	assert.False(t, h.ws.Canvas().Persisted)
}

func TestDelete_OpenTopologyBecomesDraft(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)
	h.store.On("Create", ctx, mock.Anything).Return(&ports.TopologyDocument{ID: "topo-1"}, nil).Once()
	_, err := h.ws.Save(ctx)
	require.NoError(t, err)

	h.store.On("Delete", ctx, "topo-1").Return(nil)
	require.NoError(t, h.ws.Delete(ctx, "topo-1"))

	canvas := h.ws.Canvas()
	assert.False(t, canvas.Persisted)
	assert.Empty(t, canvas.TopologyID)
	assert.Len(t, canvas.Nodes, 2)
	assert.Len(t, canvas.Edges, 1)

	// the next save creates a new topology instead of updating the deleted one
	h.store.On("Create", ctx, mock.Anything).Return(&ports.TopologyDocument{ID: "topo-2"}, nil).Once()
	_, err = h.ws.Save(ctx)
	require.NoError(t, err)
	h.store.AssertNotCalled(t, "Update", mock.Anything, "topo-1", mock.Anything)
	assert.Equal(t, "topo-2", h.ws.Canvas().TopologyID)
}

func TestRunPowerflow_AppliesOverlay(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	a, b, _ := twoNodes(t, h.ws)

	h.engine.On("RunPowerflow", ctx, mock.MatchedBy(func(topo ports.SimulationTopology) bool {
		return len(topo.Nodes) == 2 && len(topo.Lines) == 1
	})).Return(&results.PowerflowResult{
		Nodes: []results.PowerflowNode{
			{NodeID: a.ID.String(), VoltagePu: 1.0, Status: results.StatusNormal},
			{NodeID: b.ID.String(), VoltagePu: 0.9, Status: results.StatusCritical},
			{NodeID: "bus-unknown", Status: results.StatusWarning},
		},
		Summary: results.PowerflowSummary{Converged: true},
	}, nil)

	out, err := h.ws.RunPowerflow(ctx)
	require.NoError(t, err)
	assert.False(t, out.Stale)
	require.NotNil(t, out.Overlay)
	assert.Equal(t, 2, out.Overlay.StyledNodes)
	assert.Equal(t, 1, out.Overlay.Unmatched)

	canvas := h.ws.Canvas()
	assert.Equal(t, entities.OverlayPowerflow, canvas.OverlayKind)
	assert.Equal(t, "#10b981", canvas.Nodes[0].Presentation.Style.Background)
	assert.Equal(t, "#ef4444", canvas.Nodes[1].Presentation.Style.Background)
	require.NotNil(t, h.ws.Reports().Powerflow)
	assert.True(t, h.ws.Reports().Powerflow.Converged)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.OverlaysApplied.WithLabelValues("powerflow")))
}

func TestRunPowerflow_EmptyGraphRejectedBeforeNetwork(t *testing.T) {
	h := newHarness(t, "")

	_, err := h.ws.RunPowerflow(context.Background())
	assert.True(t, pkgerrors.IsValidation(err))
	h.engine.AssertNotCalled(t, "RunPowerflow", mock.Anything, mock.Anything)
}

func TestRunPowerflow_SimulationQuota(t *testing.T) {
	h := newHarness(t, "tok")
	ctx := context.Background()
	h.identity.On("Me", mock.Anything).Return(premium(0, 5, 10, 10), nil)
	require.NoError(t, h.session.Restore(ctx))
	twoNodes(t, h.ws)

	_, err := h.ws.RunPowerflow(ctx)
	assert.True(t, pkgerrors.IsPermissionDenied(err))
	h.engine.AssertNotCalled(t, "RunPowerflow", mock.Anything, mock.Anything)
}

func TestRunPowerflow_NetworkFailureLeavesOverlay(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)
	h.engine.On("RunPowerflow", ctx, mock.Anything).
		Return(nil, pkgerrors.NewNetworkFailure("simulation", errors.New("connection refused")))

	_, err := h.ws.RunPowerflow(ctx)
	assert.True(t, pkgerrors.IsNetworkFailure(err))
	assert.Equal(t, entities.OverlayNone, h.ws.Canvas().OverlayKind)
	assert.Empty(t, h.ws.Canvas().InFlight)
}

func TestRunPowerflow_InFlightAndStaleAfterReplace(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	a, _, _ := twoNodes(t, h.ws)

	started := make(chan struct{})
	release := make(chan struct{})
	h.engine.On("RunPowerflow", ctx, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&results.PowerflowResult{
			Nodes: []results.PowerflowNode{{NodeID: a.ID.String(), Status: results.StatusNormal}},
		}, nil).Once()

	var (
		wg  sync.WaitGroup
		out *SimulationOutcome
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, err = h.ws.RunPowerflow(ctx)
	}()
	<-started

	_, again := h.ws.RunPowerflow(ctx)
	assert.True(t, pkgerrors.IsOperationInFlight(again))
	assert.Contains(t, h.ws.Canvas().InFlight, OpPowerflow)

	_, draftErr := h.ws.NewDraft(ctx, "Fresh", valueobjects.ProfileUrban)
	require.NoError(t, draftErr)
	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.True(t, out.Stale)
	assert.Nil(t, out.Overlay)
	assert.Equal(t, entities.OverlayNone, h.ws.Canvas().OverlayKind)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.StaleResponses.WithLabelValues("powerflow")))
}

func TestRunPowerflow_DiscardedAfterNewerSimulation(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	a, b, e := twoNodes(t, h.ws)

	started := make(chan struct{})
	release := make(chan struct{})
	h.engine.On("RunPowerflow", ctx, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&results.PowerflowResult{
			Nodes: []results.PowerflowNode{
				{NodeID: a.ID.String(), Status: results.StatusNormal},
				{NodeID: b.ID.String(), Status: results.StatusNormal},
			},
		}, nil).Once()
	h.engine.On("RunPenetration", ctx, mock.Anything, []string{"modbus_injection"}, []string(nil)).
		Return(&results.PenetrationResult{
			Attacks: []results.AttackResult{{
				AttackID:        "atk-1",
				Severity:        results.SeverityHigh,
				AffectedNodeIDs: []string{b.ID.String()},
				AttackPath:      []results.PathStep{{From: a.ID.String(), To: b.ID.String()}},
			}},
		}, nil).Once()

	var (
		wg  sync.WaitGroup
		out *SimulationOutcome
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, err = h.ws.RunPowerflow(ctx)
	}()
	<-started

	newer, penErr := h.ws.RunPenetration(ctx, []string{"modbus_injection"}, nil)
	require.NoError(t, penErr)
	require.False(t, newer.Stale)

	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.True(t, out.Stale)
	assert.Nil(t, out.Overlay)
	assert.Less(t, out.Sequence, newer.Sequence)

	canvas := h.ws.Canvas()
	assert.Equal(t, entities.OverlaySecurity, canvas.OverlayKind)
	assert.Equal(t, "#ef4444", canvas.Nodes[1].Presentation.Style.Background)
	require.Equal(t, e.ID, canvas.Edges[0].ID)
	assert.Equal(t, entities.MarkerArrow, canvas.Edges[0].Presentation.Style.Marker)
	assert.True(t, canvas.Edges[0].Presentation.Style.Animated)
	assert.Nil(t, h.ws.Reports().Powerflow)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.StaleResponses.WithLabelValues("powerflow")))
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.StaleResponses.WithLabelValues("attack")))
}

func TestRunESG_RequiresAdvancedSecurity(t *testing.T) {
	h := newHarness(t, "")
	twoNodes(t, h.ws)

	_, err := h.ws.RunESG(context.Background(), results.ESGParameters{})
	assert.True(t, pkgerrors.IsPermissionDenied(err))
	h.engine.AssertNotCalled(t, "RunESG", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunESG_DefaultsAndScale(t *testing.T) {
	h := newHarness(t, "tok")
	ctx := context.Background()
	h.identity.On("Me", mock.Anything).Return(premium(0, 5, 0, 10), nil)
	require.NoError(t, h.session.Restore(ctx))
	a, b, _ := twoNodes(t, h.ws)

	want := results.ESGParameters{TimeHours: 24, EVChargingHours: 4, SolarGenerationHours: 6, BatteryCycles: 1}
	h.engine.On("RunESG", ctx, mock.Anything, want).Return(&results.ESGResult{
		NodeEmissions: []results.EmissionRecord{
			{NodeID: a.ID.String(), EmissionKgCO2: -5},
			{NodeID: b.ID.String(), EmissionKgCO2: 10},
		},
	}, nil)

	out, err := h.ws.RunESG(ctx, results.ESGParameters{})
	require.NoError(t, err)
	require.NotNil(t, out.Overlay)

	canvas := h.ws.Canvas()
	assert.Equal(t, "rgb(25, 227, 25)", canvas.Nodes[0].Presentation.Style.Background)
	assert.Equal(t, "rgb(255, 0, 0)", canvas.Nodes[1].Presentation.Style.Background)
	assert.NotNil(t, h.ws.Reports().ESG)
	// quota was reloaded after the run
	h.identity.AssertNumberOfCalls(t, "Me", 2)
}

func TestRunPenetration_PathEdges(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	a, b, e := twoNodes(t, h.ws)

	h.engine.On("RunPenetration", ctx, mock.Anything, []string{"modbus_injection"}, []string(nil)).
		Return(&results.PenetrationResult{
			Attacks: []results.AttackResult{
				{
					AttackID:        "atk-1",
					Severity:        results.SeverityMedium,
					AffectedNodeIDs: []string{b.ID.String()},
				},
				{
					AttackID:        "atk-2",
					Severity:        results.SeverityHigh,
					AffectedNodeIDs: []string{b.ID.String()},
					AttackPath: []results.PathStep{
						{From: "external", To: a.ID.String()},
						{From: a.ID.String(), To: b.ID.String()},
					},
				},
			},
		}, nil)

	_, err := h.ws.RunPenetration(ctx, []string{"modbus_injection"}, nil)
	require.NoError(t, err)

	canvas := h.ws.Canvas()
	assert.Equal(t, entities.OverlaySecurity, canvas.OverlayKind)
	assert.Equal(t, "#ef4444", canvas.Nodes[1].Presentation.Style.Background)
	require.Equal(t, e.ID, canvas.Edges[0].ID)
	assert.True(t, canvas.Edges[0].Presentation.Style.Animated)
	assert.Equal(t, entities.MarkerArrow, canvas.Edges[0].Presentation.Style.Marker)
}

func TestRunPenetration_RequiresScenario(t *testing.T) {
	h := newHarness(t, "")
	twoNodes(t, h.ws)

	_, err := h.ws.RunPenetration(context.Background(), nil, nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRunReliability_ReportOnly(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)

	h.engine.On("RunReliability", ctx, mock.Anything, results.ReliabilityParameters{}).
		Return(&results.ReliabilityResult{SAIDI: 1.5, SAIFI: 0.3}, nil)

	res, err := h.ws.RunReliability(ctx, results.ReliabilityParameters{})
	require.NoError(t, err)
	assert.Equal(t, 1.5, res.SAIDI)
	assert.Equal(t, entities.OverlayNone, h.ws.Canvas().OverlayKind)
	require.NotNil(t, h.ws.Reports().Reliability)
}

func TestScenarios_GroupedByLayer(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	h.engine.On("ListScenarios", ctx).Return(&results.Catalog{
		Scenarios: []results.Scenario{
			{ID: "arp", Layer: 2, Severity: results.SeverityMedium},
			{ID: "sqli", Layer: 7, Severity: results.SeverityHigh},
		},
	}, nil)

	groups, err := h.ws.Scenarios(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 7, groups[0].Layer)
	assert.Equal(t, 2, groups[1].Layer)
}

func TestFeaturesAndAllowance_Anonymous(t *testing.T) {
	h := newHarness(t, "")

	allowance := h.ws.Allowance()
	assert.True(t, allowance.Allowed)
	assert.Equal(t, 3, allowance.Max)

	for _, allowed := range h.ws.Features() {
		assert.False(t, allowed)
	}
}

func TestChanges_TrackedAgainstLastSave(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	assert.False(t, h.ws.Canvas().Modified)

	a, _, e := twoNodes(t, h.ws)
	changes := h.ws.Changes()
	assert.True(t, changes.Modified)
	assert.Len(t, changes.Diff.Nodes.Added, 2)
	assert.Equal(t, []string{e.ID.String()}, changes.Diff.Edges.Added)

	h.store.On("Create", ctx, mock.Anything).Return(&ports.TopologyDocument{ID: "topo-1"}, nil)
	_, err := h.ws.Save(ctx)
	require.NoError(t, err)
	assert.False(t, h.ws.Canvas().Modified)

	require.NoError(t, h.ws.MoveNode(ctx, a.ID, pos(5, 5)))
	changes = h.ws.Changes()
	assert.True(t, changes.Modified)
	assert.Equal(t, []string{a.ID.String()}, changes.Diff.Nodes.Modified)
	assert.Empty(t, changes.Diff.Nodes.Added)

	// moving it back restores the saved content
	require.NoError(t, h.ws.MoveNode(ctx, a.ID, pos(0, 0)))
	assert.False(t, h.ws.Changes().Modified)
}

func TestChanges_OrphanedDraftIsModified(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	twoNodes(t, h.ws)
	h.store.On("Create", ctx, mock.Anything).Return(&ports.TopologyDocument{ID: "topo-1"}, nil)
	_, err := h.ws.Save(ctx)
	require.NoError(t, err)

	h.store.On("Delete", ctx, "topo-1").Return(nil)
	require.NoError(t, h.ws.Delete(ctx, "topo-1"))

	changes := h.ws.Changes()
	assert.True(t, changes.Modified)
	assert.True(t, changes.Diff.HeaderChanged)
	assert.Len(t, changes.Diff.Nodes.Added, 2)
}

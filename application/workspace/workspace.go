// Package workspace holds the open topology and serializes every operation on
// it. Network-bound operations release the lock while the backend answers and
// are fenced per operation by an in-flight flag.
package workspace

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feeder-workbench/application/ingestion"
	"feeder-workbench/application/ports"
	"feeder-workbench/domain/config"
	"feeder-workbench/domain/core/aggregates"
	"feeder-workbench/domain/core/entities"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/events"
	"feeder-workbench/domain/permissions"
	"feeder-workbench/domain/services"
	"feeder-workbench/domain/versioning"
	"feeder-workbench/domain/visual"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/observability"
)

// Operation names a network-bound operation guarded by an in-flight flag
type Operation string

const (
	OpSave        Operation = "save"
	OpLoad        Operation = "load"
	OpDelete      Operation = "delete"
	OpPowerflow   Operation = "powerflow"
	OpESG         Operation = "esg"
	OpPenetration Operation = "penetration"
	OpReliability Operation = "reliability"
)

// Session is the part of the session manager the workspace drives
type Session interface {
	permissions.Session
	RefreshQuota(ctx context.Context) error
	HandleError(err error)
	NoteSimulationIssued()
}

// Dependencies groups the collaborators of a Workspace
type Dependencies struct {
	Store      ports.TopologyStore
	Engine     ports.SimulationEngine
	Publisher  ports.EventPublisher
	Session    Session
	Gate       *permissions.Gate
	Adapter    *ingestion.Adapter
	Correlator *services.ResultCorrelator
	Policy     *visual.Policy
	Rules      *config.DomainConfig
	Metrics    *observability.Collector
	Logger     *zap.Logger
}

// Workspace is the canvas state of one operator
type Workspace struct {
	store      ports.TopologyStore
	engine     ports.SimulationEngine
	publisher  ports.EventPublisher
	session    Session
	gate       *permissions.Gate
	adapter    *ingestion.Adapter
	correlator *services.ResultCorrelator
	policy     *visual.Policy
	rules      *config.DomainConfig
	metrics    *observability.Collector
	logger     *zap.Logger

	id string

	mu       sync.Mutex
	topology *aggregates.Topology
	// bumped whenever the whole graph is swapped out
	generation uint64
	// sequence of the newest issued overlay simulation
	simSeq   uint64
	inFlight map[Operation]bool
	overlay  *OverlaySummary
	reports  Reports
	// content as last saved, loaded or started; zero for an orphaned draft
	baseline versioning.Baseline
}

// New creates a workspace holding an empty draft
func New(deps Dependencies) (*Workspace, error) {
	rules := deps.Rules
	if rules == nil {
		rules = config.DefaultDomainConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewCollector("workbench")
	}
	adapter := deps.Adapter
	if adapter == nil {
		adapter = ingestion.NewAdapter(rules)
	}
	gate := deps.Gate
	if gate == nil {
		gate = permissions.NewGate(rules)
	}
	correlator := deps.Correlator
	if correlator == nil {
		correlator = services.NewResultCorrelator()
	}
	policy := deps.Policy
	if policy == nil {
		policy = visual.NewPolicy()
	}

	topo, err := aggregates.NewTopologyWithRules(rules.DefaultTopologyName, valueobjects.DefaultProfile, rules)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		store:      deps.Store,
		engine:     deps.Engine,
		publisher:  deps.Publisher,
		session:    deps.Session,
		gate:       gate,
		adapter:    adapter,
		correlator: correlator,
		policy:     policy,
		rules:      rules,
		metrics:    metrics,
		logger:     logger,
		id:         uuid.New().String(),
		topology:   topo,
		inFlight:   make(map[Operation]bool),
		baseline:   captureBaseline(topo.SnapshotForPersistence(), logger),
	}, nil
}

// ID identifies this workspace in logs
func (w *Workspace) ID() string { return w.id }

// AddNode places a new asset on the canvas
func (w *Workspace) AddNode(ctx context.Context, assetType valueobjects.AssetType, position valueobjects.Position, displayName string) (NodeView, error) {
	var view NodeView
	err := w.mutate(ctx, "add_node", func(t *aggregates.Topology) error {
		node, err := t.AddNode(assetType, position, displayName)
		if err != nil {
			return err
		}
		view = nodeView(node)
		return nil
	})
	return view, err
}

// ConnectEdge draws a line between two existing nodes
func (w *Workspace) ConnectEdge(ctx context.Context, from, to valueobjects.NodeID, label string) (EdgeView, error) {
	var view EdgeView
	err := w.mutate(ctx, "connect_edge", func(t *aggregates.Topology) error {
		edge, err := t.ConnectEdge(from, to, label)
		if err != nil {
			return err
		}
		view = edgeView(edge)
		return nil
	})
	return view, err
}

// MoveNode repositions a node
func (w *Workspace) MoveNode(ctx context.Context, id valueobjects.NodeID, position valueobjects.Position) error {
	return w.mutate(ctx, "move_node", func(t *aggregates.Topology) error {
		return t.MoveNode(id, position)
	})
}

// RenameNode changes a node's display name
func (w *Workspace) RenameNode(ctx context.Context, id valueobjects.NodeID, name string) error {
	return w.mutate(ctx, "rename_node", func(t *aggregates.Topology) error {
		return t.RenameNode(id, name)
	})
}

// UpdateNodeProperties replaces a node's property bag
func (w *Workspace) UpdateNodeProperties(ctx context.Context, id valueobjects.NodeID, properties map[string]interface{}) error {
	return w.mutate(ctx, "update_node_properties", func(t *aggregates.Topology) error {
		return t.UpdateNodeProperties(id, properties)
	})
}

// RemoveNode deletes a node and its incident edges
func (w *Workspace) RemoveNode(ctx context.Context, id valueobjects.NodeID) error {
	return w.mutate(ctx, "remove_node", func(t *aggregates.Topology) error {
		return t.RemoveNode(id)
	})
}

// RemoveEdge deletes an edge
func (w *Workspace) RemoveEdge(ctx context.Context, id valueobjects.EdgeID) error {
	return w.mutate(ctx, "remove_edge", func(t *aggregates.Topology) error {
		return t.RemoveEdge(id)
	})
}

// Rename changes the topology name
func (w *Workspace) Rename(ctx context.Context, name string) error {
	return w.mutate(ctx, "rename", func(t *aggregates.Topology) error {
		return t.Rename(name)
	})
}

// SetDescription changes the topology description
func (w *Workspace) SetDescription(ctx context.Context, description string) error {
	return w.mutate(ctx, "set_description", func(t *aggregates.Topology) error {
		t.SetDescription(description)
		return nil
	})
}

// SetProfile changes the feeder profile
func (w *Workspace) SetProfile(ctx context.Context, profile valueobjects.ProfileType) error {
	return w.mutate(ctx, "set_profile", func(t *aggregates.Topology) error {
		return t.SetProfile(profile)
	})
}

// ClearOverlay drops the active overlay and returns every entity to neutral
func (w *Workspace) ClearOverlay(ctx context.Context) {
	_ = w.mutate(ctx, "clear_overlay", func(t *aggregates.Topology) error {
		t.ClearOverlay()
		w.overlay = nil
		return nil
	})
}

// NewDraft discards the open topology and starts an empty one.
// Pending simulation responses for the old graph become stale.
func (w *Workspace) NewDraft(ctx context.Context, name string, profile valueobjects.ProfileType) (CanvasView, error) {
	if name == "" {
		name = w.rules.DefaultTopologyName
	}
	if profile == "" {
		profile = valueobjects.DefaultProfile
	}
	topo, err := aggregates.NewTopologyWithRules(name, profile, w.rules)
	if err != nil {
		return CanvasView{}, err
	}

	w.mu.Lock()
	w.replaceTopology(topo, true)
	view := w.canvasLocked()
	w.mu.Unlock()

	w.metrics.GraphMutations.WithLabelValues("new_draft").Inc()
	w.logger.Info("Started new draft", zap.String("workspace_id", w.id), zap.String("name", name))
	return view, nil
}

// Canvas returns the read model of the open topology
func (w *Workspace) Canvas() CanvasView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canvasLocked()
}

// Reports returns the reports of the latest simulations
func (w *Workspace) Reports() Reports {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reports
}

// Allowance reports whether saving the open topology as new would fit the quota
func (w *Workspace) Allowance() permissions.TopologyAllowance {
	return w.gate.CanCreateTopology(w.session)
}

// Features reports which guarded features the session may use
func (w *Workspace) Features() map[permissions.Feature]bool {
	out := make(map[permissions.Feature]bool, len(permissions.AllFeatures))
	for _, f := range permissions.AllFeatures {
		out[f] = w.gate.CanUseFeature(f, w.session)
	}
	return out
}

// mutate runs one synchronous graph edit under the lock and publishes its events
func (w *Workspace) mutate(ctx context.Context, op string, fn func(*aggregates.Topology) error) error {
	w.mu.Lock()
	err := fn(w.topology)
	evts := w.drainEventsLocked()
	w.mu.Unlock()

	if err != nil {
		w.logger.Debug("Canvas edit rejected",
			zap.String("operation", op),
			zap.Error(err),
		)
		return err
	}
	w.metrics.GraphMutations.WithLabelValues(op).Inc()
	w.publish(ctx, evts)
	return nil
}

// replaceTopology swaps the graph and invalidates everything derived from the
// old one. An untracked graph has no saved content to compare against.
func (w *Workspace) replaceTopology(topo *aggregates.Topology, tracked bool) {
	w.topology = topo
	w.generation++
	w.overlay = nil
	w.reports = Reports{}
	w.baseline = versioning.Baseline{}
	if tracked {
		w.baseline = captureBaseline(topo.SnapshotForPersistence(), w.logger)
	}
}

// Changes lists the edits made since the open topology was last saved,
// loaded or started
func (w *Workspace) Changes() ChangesView {
	w.mu.Lock()
	defer w.mu.Unlock()
	diff := w.diffLocked()
	return ChangesView{
		TopologyID: w.topology.ID().String(),
		Modified:   !diff.IsEmpty(),
		Checksum:   w.baseline.Checksum,
		Diff:       diff,
	}
}

func (w *Workspace) diffLocked() versioning.Diff {
	current := captureBaseline(w.topology.SnapshotForPersistence(), w.logger)
	return versioning.Compare(w.baseline, current)
}

func captureBaseline(snap aggregates.Snapshot, logger *zap.Logger) versioning.Baseline {
	b, err := versioning.Capture(snap)
	if err != nil {
		logger.Warn("Failed to fingerprint topology", zap.Error(err))
	}
	return b
}

// begin sets the in-flight flag for op
func (w *Workspace) beginLocked(op Operation) error {
	if w.inFlight[op] {
		return pkgerrors.NewOperationInFlight(string(op))
	}
	w.inFlight[op] = true
	return nil
}

func (w *Workspace) end(op Operation) {
	w.mu.Lock()
	delete(w.inFlight, op)
	w.mu.Unlock()
}

func (w *Workspace) drainEventsLocked() []events.DomainEvent {
	evts := w.topology.GetUncommittedEvents()
	w.topology.MarkEventsAsCommitted()
	return evts
}

func (w *Workspace) publish(ctx context.Context, evts []events.DomainEvent) {
	if len(evts) == 0 || w.publisher == nil {
		return
	}
	if err := w.publisher.PublishBatch(ctx, evts); err != nil {
		w.logger.Warn("Failed to publish domain events",
			zap.Int("count", len(evts)),
			zap.Error(err),
		)
	}
}

// denied counts a gate rejection
func (w *Workspace) denied(check string, err error) error {
	w.metrics.GateDenials.WithLabelValues(check).Inc()
	w.logger.Info("Operation blocked by permission gate",
		zap.String("check", check),
		zap.Error(err),
	)
	return err
}

// refreshQuota reloads the authoritative quota after a quota-consuming action.
// A failure is logged; the action itself already succeeded.
func (w *Workspace) refreshQuota(ctx context.Context) {
	if w.session == nil {
		return
	}
	if err := w.session.RefreshQuota(ctx); err != nil {
		w.logger.Warn("Quota refresh failed", zap.Error(err))
	}
}

func (w *Workspace) handleBackendError(op Operation, err error) error {
	if w.session != nil {
		w.session.HandleError(err)
	}
	w.logger.Warn("Backend operation failed",
		zap.String("operation", string(op)),
		zap.Error(err),
	)
	return err
}

func (w *Workspace) canvasLocked() CanvasView {
	t := w.topology
	view := CanvasView{
		WorkspaceID: w.id,
		TopologyID:  t.ID().String(),
		Persisted:   t.IsPersisted(),
		Name:        t.Name(),
		Description: t.Description(),
		ProfileType: t.ProfileType(),
		Version:     t.Version(),
		Modified:    !w.diffLocked().IsEmpty(),
		OverlayKind: t.OverlayKind(),
		Overlay:     w.overlay,
		Nodes:       make([]NodeView, 0, t.NodeCount()),
		Edges:       make([]EdgeView, 0, t.EdgeCount()),
		InFlight:    make([]Operation, 0, len(w.inFlight)),
	}
	for _, n := range t.Nodes() {
		view.Nodes = append(view.Nodes, nodeView(n))
	}
	for _, e := range t.Edges() {
		view.Edges = append(view.Edges, edgeView(e))
	}
	for op := range w.inFlight {
		view.InFlight = append(view.InFlight, op)
	}
	sort.Slice(view.InFlight, func(i, j int) bool { return view.InFlight[i] < view.InFlight[j] })
	return view
}

func nodeView(n *entities.Node) NodeView {
	return NodeView{
		ID:           n.ID(),
		AssetType:    n.AssetType(),
		DisplayName:  n.DisplayName(),
		Position:     n.Position(),
		Properties:   n.Properties(),
		Presentation: n.Presentation(),
	}
}

func edgeView(e *entities.Edge) EdgeView {
	return EdgeView{
		ID:           e.ID(),
		From:         e.From(),
		To:           e.To(),
		Label:        e.Label(),
		Properties:   e.Properties(),
		Presentation: e.Presentation(),
	}
}

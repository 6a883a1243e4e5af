package aggregates

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"feeder-workbench/domain/config"
	"feeder-workbench/domain/core/entities"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/events"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Topology is the aggregate root for one feeder graph.
// It owns canonical node and edge identity; every structural mutation goes
// through it so that edges can never reference a missing node.
type Topology struct {
	id          valueobjects.TopologyID
	draftKey    string
	name        string
	description string
	profile     valueobjects.ProfileType

	nodes     map[valueobjects.NodeID]*entities.Node
	nodeOrder []valueobjects.NodeID
	edges     map[valueobjects.EdgeID]*entities.Edge
	edgeOrder []valueobjects.EdgeID

	overlayKind entities.OverlayKind
	ids         *valueobjects.IDGenerator
	rules       *config.DomainConfig

	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// Snapshot is the structural content of a topology with every overlay field stripped
type Snapshot struct {
	ID          valueobjects.TopologyID  `json:"id,omitempty"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	ProfileType valueobjects.ProfileType `json:"profile_type"`
	Nodes       []NodeData               `json:"nodes"`
	Edges       []EdgeData               `json:"edges"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// NodeData is the structural part of a node
type NodeData struct {
	ID          valueobjects.NodeID    `json:"id"`
	AssetType   valueobjects.AssetType `json:"asset_type"`
	DisplayName string                 `json:"display_name"`
	Position    valueobjects.Position  `json:"position"`
	Properties  map[string]interface{} `json:"properties"`
}

// EdgeData is the structural part of an edge
type EdgeData struct {
	ID         valueobjects.EdgeID    `json:"id"`
	From       valueobjects.NodeID    `json:"from"`
	To         valueobjects.NodeID    `json:"to"`
	Label      string                 `json:"label,omitempty"`
	Properties map[string]interface{} `json:"properties"`
}

// OverlayResult reports how an overlay landed on the graph
type OverlayResult struct {
	Kind        entities.OverlayKind `json:"kind"`
	StyledNodes int                  `json:"styled_nodes"`
	StyledEdges int                  `json:"styled_edges"`
	Unknown     int                  `json:"unknown"`
}

// NewTopology creates an empty draft. It has no id until the first save.
func NewTopology(name string, profile valueobjects.ProfileType) (*Topology, error) {
	return NewTopologyWithRules(name, profile, config.DefaultDomainConfig())
}

// NewTopologyWithRules creates an empty draft governed by the given domain rules
func NewTopologyWithRules(name string, profile valueobjects.ProfileType, rules *config.DomainConfig) (*Topology, error) {
	if rules == nil {
		rules = config.DefaultDomainConfig()
	}
	if profile == "" {
		profile = valueobjects.DefaultProfile
	}
	if !profile.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown profile type: " + profile.String())
	}
	if strings.TrimSpace(name) == "" {
		name = rules.DefaultTopologyName
	}

	now := time.Now()
	return &Topology{
		draftKey:  uuid.New().String(),
		name:      name,
		profile:   profile,
		nodes:     make(map[valueobjects.NodeID]*entities.Node),
		edges:     make(map[valueobjects.EdgeID]*entities.Edge),
		ids:       valueobjects.NewIDGenerator(),
		rules:     rules,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ID returns the server-assigned id, empty for drafts
func (t *Topology) ID() valueobjects.TopologyID { return t.id }

// IsPersisted reports whether the topology has been saved at least once
func (t *Topology) IsPersisted() bool { return !t.id.IsZero() }

// Name returns the topology name
func (t *Topology) Name() string { return t.name }

// Description returns the topology description
func (t *Topology) Description() string { return t.description }

// ProfileType returns the feeder profile
func (t *Topology) ProfileType() valueobjects.ProfileType { return t.profile }

// OverlayKind returns the kind of the overlay currently applied
func (t *Topology) OverlayKind() entities.OverlayKind { return t.overlayKind }

// Version increases on every mutation
func (t *Topology) Version() int { return t.version }

// CreatedAt returns when the topology was created
func (t *Topology) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns when the topology was last changed
func (t *Topology) UpdatedAt() time.Time { return t.updatedAt }

// NodeCount returns the number of nodes
func (t *Topology) NodeCount() int { return len(t.nodeOrder) }

// EdgeCount returns the number of edges
func (t *Topology) EdgeCount() int { return len(t.edgeOrder) }

// HasNode checks if a node exists without error
func (t *Topology) HasNode(id valueobjects.NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// HasEdge checks if an edge exists without error
func (t *Topology) HasEdge(id valueobjects.EdgeID) bool {
	_, ok := t.edges[id]
	return ok
}

// GetNode returns a copy of the node
func (t *Topology) GetNode(id valueobjects.NodeID) (*entities.Node, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, pkgerrors.NewInvalidReference("node", id.String())
	}
	return node.Clone(), nil
}

// Nodes returns copies of all nodes in insertion order
func (t *Topology) Nodes() []*entities.Node {
	out := make([]*entities.Node, 0, len(t.nodeOrder))
	for _, id := range t.nodeOrder {
		out = append(out, t.nodes[id].Clone())
	}
	return out
}

// Edges returns copies of all edges in insertion order
func (t *Topology) Edges() []*entities.Edge {
	out := make([]*entities.Edge, 0, len(t.edgeOrder))
	for _, id := range t.edgeOrder {
		out = append(out, t.edges[id].Clone())
	}
	return out
}

// Rename changes the topology name
func (t *Topology) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.NewValidationError("topology name cannot be empty")
	}
	t.name = name
	t.touch()
	return nil
}

// SetDescription changes the topology description
func (t *Topology) SetDescription(description string) {
	t.description = description
	t.touch()
}

// SetProfile changes the feeder profile
func (t *Topology) SetProfile(profile valueobjects.ProfileType) error {
	if !profile.IsValid() {
		return pkgerrors.NewValidationError("unknown profile type: " + profile.String())
	}
	t.profile = profile
	t.touch()
	return nil
}

// AddNode places a new node. Its id is "<assetType>-<n>" and never collides with an existing id.
func (t *Topology) AddNode(assetType valueobjects.AssetType, position valueobjects.Position, displayName string) (*entities.Node, error) {
	if len(t.nodes) >= t.rules.MaxNodesPerTopology {
		return nil, pkgerrors.NewValidationError("maximum nodes reached").
			WithDetail("limit", t.rules.MaxNodesPerTopology)
	}

	id := t.ids.NextNodeID(assetType, t.HasNode)
	node, err := entities.NewNode(id, assetType, displayName, position, nil)
	if err != nil {
		return nil, err
	}

	t.nodes[id] = node
	t.nodeOrder = append(t.nodeOrder, id)
	t.touch()
	t.addEvent(events.NewNodeAdded(t.aggregateID(), t.version, id, assetType, t.updatedAt))

	return node.Clone(), nil
}

// ConnectEdge creates an edge between two existing nodes.
// Connecting the same ordered pair twice returns the existing edge.
func (t *Topology) ConnectEdge(from, to valueobjects.NodeID, label string) (*entities.Edge, error) {
	if !t.HasNode(from) {
		return nil, pkgerrors.NewInvalidReference("node", from.String())
	}
	if !t.HasNode(to) {
		return nil, pkgerrors.NewInvalidReference("node", to.String())
	}
	if from == to && !t.rules.AllowSelfConnections {
		return nil, pkgerrors.NewValidationError("cannot connect node to itself")
	}

	for _, id := range t.edgeOrder {
		if e := t.edges[id]; e.From() == from && e.To() == to {
			return e.Clone(), nil
		}
	}

	if len(t.edges) >= t.rules.MaxEdgesPerTopology {
		return nil, pkgerrors.NewValidationError("maximum edges reached").
			WithDetail("limit", t.rules.MaxEdgesPerTopology)
	}

	id := t.ids.NextEdgeID(from, to, t.HasEdge)
	edge, err := entities.NewEdge(id, from, to, label, nil)
	if err != nil {
		return nil, err
	}

	t.edges[id] = edge
	t.edgeOrder = append(t.edgeOrder, id)
	t.touch()
	t.addEvent(events.NewEdgeConnected(t.aggregateID(), t.version, id, from, to, t.updatedAt))

	return edge.Clone(), nil
}

// MoveNode updates a node's canvas position
func (t *Topology) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	node, ok := t.nodes[id]
	if !ok {
		return pkgerrors.NewInvalidReference("node", id.String())
	}
	old := node.Position()
	node.MoveTo(position)
	t.touch()
	t.addEvent(events.NewNodeMoved(t.aggregateID(), t.version, id, old, position, t.updatedAt))
	return nil
}

// RenameNode changes a node's display name
func (t *Topology) RenameNode(id valueobjects.NodeID, name string) error {
	node, ok := t.nodes[id]
	if !ok {
		return pkgerrors.NewInvalidReference("node", id.String())
	}
	if err := node.Rename(name); err != nil {
		return err
	}
	t.touch()
	return nil
}

// UpdateNodeProperties replaces a node's asset properties
func (t *Topology) UpdateNodeProperties(id valueobjects.NodeID, properties map[string]interface{}) error {
	node, ok := t.nodes[id]
	if !ok {
		return pkgerrors.NewInvalidReference("node", id.String())
	}
	node.SetProperties(properties)
	t.touch()
	return nil
}

// RemoveNode deletes a node together with every edge touching it
func (t *Topology) RemoveNode(id valueobjects.NodeID) error {
	if !t.HasNode(id) {
		return pkgerrors.NewInvalidReference("node", id.String())
	}

	var removed []valueobjects.EdgeID
	keptEdges := t.edgeOrder[:0:0]
	for _, edgeID := range t.edgeOrder {
		if t.edges[edgeID].Touches(id) {
			delete(t.edges, edgeID)
			removed = append(removed, edgeID)
			continue
		}
		keptEdges = append(keptEdges, edgeID)
	}
	t.edgeOrder = keptEdges

	delete(t.nodes, id)
	t.nodeOrder = removeNodeID(t.nodeOrder, id)
	t.touch()
	t.addEvent(events.NewNodeRemoved(t.aggregateID(), t.version, id, removed, t.updatedAt))
	return nil
}

// RemoveEdge deletes a single edge
func (t *Topology) RemoveEdge(id valueobjects.EdgeID) error {
	if !t.HasEdge(id) {
		return pkgerrors.NewInvalidReference("edge", id.String())
	}
	delete(t.edges, id)
	kept := t.edgeOrder[:0:0]
	for _, edgeID := range t.edgeOrder {
		if edgeID != id {
			kept = append(kept, edgeID)
		}
	}
	t.edgeOrder = kept
	t.touch()
	t.addEvent(events.NewEdgeRemoved(t.aggregateID(), t.version, id, t.updatedAt))
	return nil
}

// ReplaceAll swaps in a complete node and edge set.
// Every edge endpoint and id is validated first; on any violation the
// prior graph is kept untouched and an IntegrityViolation is returned.
func (t *Topology) ReplaceAll(nodes []*entities.Node, edges []*entities.Edge) error {
	if len(nodes) > t.rules.MaxNodesPerTopology {
		return pkgerrors.NewIntegrityViolation("too many nodes").
			WithDetail("limit", t.rules.MaxNodesPerTopology)
	}
	if len(edges) > t.rules.MaxEdgesPerTopology {
		return pkgerrors.NewIntegrityViolation("too many edges").
			WithDetail("limit", t.rules.MaxEdgesPerTopology)
	}

	nodeMap := make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	nodeOrder := make([]valueobjects.NodeID, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return pkgerrors.NewIntegrityViolation("nil node in replacement set")
		}
		if _, dup := nodeMap[n.ID()]; dup {
			return pkgerrors.NewIntegrityViolation(fmt.Sprintf("duplicate node id '%s'", n.ID())).
				WithDetail("node_id", n.ID().String())
		}
		c := n.Clone()
		c.SetPresentation(entities.Presentation{Style: entities.NeutralNodeStyle()})
		nodeMap[n.ID()] = c
		nodeOrder = append(nodeOrder, n.ID())
	}

	edgeMap := make(map[valueobjects.EdgeID]*entities.Edge, len(edges))
	edgeOrder := make([]valueobjects.EdgeID, 0, len(edges))
	var dangling []string
	for _, e := range edges {
		if e == nil {
			return pkgerrors.NewIntegrityViolation("nil edge in replacement set")
		}
		if _, dup := edgeMap[e.ID()]; dup {
			return pkgerrors.NewIntegrityViolation(fmt.Sprintf("duplicate edge id '%s'", e.ID())).
				WithDetail("edge_id", e.ID().String())
		}
		_, fromOK := nodeMap[e.From()]
		_, toOK := nodeMap[e.To()]
		if !fromOK || !toOK {
			dangling = append(dangling, e.ID().String())
			continue
		}
		c := e.Clone()
		c.SetPresentation(entities.Presentation{Style: entities.NeutralEdgeStyle()})
		edgeMap[e.ID()] = c
		edgeOrder = append(edgeOrder, e.ID())
	}
	if len(dangling) > 0 {
		return pkgerrors.NewIntegrityViolation("edges reference nodes that do not exist").
			WithDetail("dangling_edges", dangling)
	}

	t.nodes = nodeMap
	t.nodeOrder = nodeOrder
	t.edges = edgeMap
	t.edgeOrder = edgeOrder
	t.overlayKind = entities.OverlayNone
	t.touch()
	t.addEvent(events.NewTopologyReplaced(t.aggregateID(), t.version, len(nodeOrder), len(edgeOrder), t.updatedAt))
	return nil
}

// ApplyVisualOverlay restyles the graph from one result set.
// Only presentation fields change. Entities the overlay does not mention go
// back to their neutral style, so a new overlay always supersedes the last one.
// Overlay entries for ids not in the graph are ignored and counted.
func (t *Topology) ApplyVisualOverlay(overlay entities.Overlay) OverlayResult {
	result := OverlayResult{Kind: overlay.Kind}

	for _, id := range t.nodeOrder {
		p, ok := overlay.Nodes[id]
		if !ok {
			p = entities.Presentation{Style: entities.NeutralNodeStyle()}
		} else {
			result.StyledNodes++
		}
		t.nodes[id].SetPresentation(p)
	}
	for _, id := range t.edgeOrder {
		p, ok := overlay.Edges[id]
		if !ok {
			p = entities.Presentation{Style: entities.NeutralEdgeStyle()}
		} else {
			result.StyledEdges++
		}
		t.edges[id].SetPresentation(p)
	}
	result.Unknown = len(overlay.Nodes) - result.StyledNodes + len(overlay.Edges) - result.StyledEdges

	t.overlayKind = overlay.Kind
	t.addEvent(events.NewOverlayApplied(t.aggregateID(), t.version, string(overlay.Kind),
		result.StyledNodes, result.StyledEdges, result.Unknown, time.Now()))
	return result
}

// ClearOverlay resets every entity to its neutral style
func (t *Topology) ClearOverlay() {
	t.ApplyVisualOverlay(entities.NewOverlay(entities.OverlayNone))
}

// SnapshotForPersistence returns the canonical structural data in insertion order
func (t *Topology) SnapshotForPersistence() Snapshot {
	snap := Snapshot{
		ID:          t.id,
		Name:        t.name,
		Description: t.description,
		ProfileType: t.profile,
		Nodes:       make([]NodeData, 0, len(t.nodeOrder)),
		Edges:       make([]EdgeData, 0, len(t.edgeOrder)),
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
	for _, id := range t.nodeOrder {
		n := t.nodes[id]
		snap.Nodes = append(snap.Nodes, NodeData{
			ID:          n.ID(),
			AssetType:   n.AssetType(),
			DisplayName: n.DisplayName(),
			Position:    n.Position(),
			Properties:  n.Properties(),
		})
	}
	for _, id := range t.edgeOrder {
		e := t.edges[id]
		snap.Edges = append(snap.Edges, EdgeData{
			ID:         e.ID(),
			From:       e.From(),
			To:         e.To(),
			Label:      e.Label(),
			Properties: e.Properties(),
		})
	}
	return snap
}

// MarkPersisted records the server-assigned identity after a confirmed save
func (t *Topology) MarkPersisted(id valueobjects.TopologyID, createdAt, updatedAt time.Time) error {
	if id.IsZero() {
		return pkgerrors.NewValidationError("persisted topology id cannot be empty")
	}
	created := t.id.IsZero()
	t.id = id
	if !createdAt.IsZero() {
		t.createdAt = createdAt
	}
	if !updatedAt.IsZero() {
		t.updatedAt = updatedAt
	}
	t.addEvent(events.NewTopologyPersisted(t.aggregateID(), t.version, id, created, time.Now()))
	return nil
}

// Validate ensures graph invariants
func (t *Topology) Validate() error {
	if len(t.nodes) != len(t.nodeOrder) || len(t.edges) != len(t.edgeOrder) {
		return pkgerrors.NewInternalError("topology index out of sync")
	}
	for _, e := range t.edges {
		if !t.HasNode(e.From()) || !t.HasNode(e.To()) {
			return pkgerrors.NewIntegrityViolation("edge references non-existent node").
				WithDetail("edge_id", e.ID().String())
		}
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (t *Topology) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(t.events))
	copy(out, t.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (t *Topology) MarkEventsAsCommitted() {
	t.events = nil
}

// Private helper methods

func (t *Topology) aggregateID() string {
	if t.id.IsZero() {
		return "draft-" + t.draftKey
	}
	return t.id.String()
}

func (t *Topology) touch() {
	t.updatedAt = time.Now()
	t.version++
}

func (t *Topology) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

func removeNodeID(ids []valueobjects.NodeID, target valueobjects.NodeID) []valueobjects.NodeID {
	out := ids[:0:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

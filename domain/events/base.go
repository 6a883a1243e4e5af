package events

import (
	"time"

	"feeder-workbench/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, version int, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at,
		Version:     version,
	}
}

// NodeAdded is raised when a node is placed on the canvas
type NodeAdded struct {
	BaseEvent
	NodeID    valueobjects.NodeID    `json:"node_id"`
	AssetType valueobjects.AssetType `json:"asset_type"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(aggregateID string, version int, nodeID valueobjects.NodeID, assetType valueobjects.AssetType, at time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: newBase(aggregateID, "topology.node_added", version, at),
		NodeID:    nodeID,
		AssetType: assetType,
	}
}

// NodeMoved is raised when a node is dragged to a new position
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(aggregateID string, version int, nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, at time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent:   newBase(aggregateID, "topology.node_moved", version, at),
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeRemoved is raised when a node and its incident edges are deleted
type NodeRemoved struct {
	BaseEvent
	NodeID       valueobjects.NodeID   `json:"node_id"`
	RemovedEdges []valueobjects.EdgeID `json:"removed_edges"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(aggregateID string, version int, nodeID valueobjects.NodeID, removed []valueobjects.EdgeID, at time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent:    newBase(aggregateID, "topology.node_removed", version, at),
		NodeID:       nodeID,
		RemovedEdges: removed,
	}
}

// EdgeConnected is raised when two nodes are connected
type EdgeConnected struct {
	BaseEvent
	EdgeID valueobjects.EdgeID `json:"edge_id"`
	From   valueobjects.NodeID `json:"from"`
	To     valueobjects.NodeID `json:"to"`
}

// NewEdgeConnected creates an EdgeConnected event
func NewEdgeConnected(aggregateID string, version int, edgeID valueobjects.EdgeID, from, to valueobjects.NodeID, at time.Time) EdgeConnected {
	return EdgeConnected{
		BaseEvent: newBase(aggregateID, "topology.edge_connected", version, at),
		EdgeID:    edgeID,
		From:      from,
		To:        to,
	}
}

// EdgeRemoved is raised when an edge is deleted
type EdgeRemoved struct {
	BaseEvent
	EdgeID valueobjects.EdgeID `json:"edge_id"`
}

// NewEdgeRemoved creates an EdgeRemoved event
func NewEdgeRemoved(aggregateID string, version int, edgeID valueobjects.EdgeID, at time.Time) EdgeRemoved {
	return EdgeRemoved{
		BaseEvent: newBase(aggregateID, "topology.edge_removed", version, at),
		EdgeID:    edgeID,
	}
}

// TopologyReplaced is raised when the whole graph is swapped, e.g. on load
type TopologyReplaced struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewTopologyReplaced creates a TopologyReplaced event
func NewTopologyReplaced(aggregateID string, version, nodes, edges int, at time.Time) TopologyReplaced {
	return TopologyReplaced{
		BaseEvent: newBase(aggregateID, "topology.replaced", version, at),
		NodeCount: nodes,
		EdgeCount: edges,
	}
}

// OverlayApplied is raised when a result set restyles the graph
type OverlayApplied struct {
	BaseEvent
	Kind          string `json:"kind"`
	StyledNodes   int    `json:"styled_nodes"`
	StyledEdges   int    `json:"styled_edges"`
	UnknownEntity int    `json:"unknown_entities"`
}

// NewOverlayApplied creates an OverlayApplied event
func NewOverlayApplied(aggregateID string, version int, kind string, nodes, edges, unknown int, at time.Time) OverlayApplied {
	return OverlayApplied{
		BaseEvent:     newBase(aggregateID, "topology.overlay_applied", version, at),
		Kind:          kind,
		StyledNodes:   nodes,
		StyledEdges:   edges,
		UnknownEntity: unknown,
	}
}

// TopologyPersisted is raised when a save is confirmed by the topology store
type TopologyPersisted struct {
	BaseEvent
	TopologyID valueobjects.TopologyID `json:"topology_id"`
	Created    bool                    `json:"created"`
}

// NewTopologyPersisted creates a TopologyPersisted event
func NewTopologyPersisted(aggregateID string, version int, id valueobjects.TopologyID, created bool, at time.Time) TopologyPersisted {
	return TopologyPersisted{
		BaseEvent:  newBase(aggregateID, "topology.persisted", version, at),
		TopologyID: id,
		Created:    created,
	}
}

package workspace

import (
	"time"

	"feeder-workbench/domain/core/entities"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/results"
	"feeder-workbench/domain/versioning"
)

// NodeView is a node as the canvas draws it
type NodeView struct {
	ID           valueobjects.NodeID    `json:"id"`
	AssetType    valueobjects.AssetType `json:"type"`
	DisplayName  string                 `json:"name"`
	Position     valueobjects.Position  `json:"position"`
	Properties   map[string]interface{} `json:"properties"`
	Presentation entities.Presentation  `json:"presentation"`
}

// EdgeView is an edge as the canvas draws it
type EdgeView struct {
	ID           valueobjects.EdgeID    `json:"id"`
	From         valueobjects.NodeID    `json:"from_node_id"`
	To           valueobjects.NodeID    `json:"to_node_id"`
	Label        string                 `json:"label,omitempty"`
	Properties   map[string]interface{} `json:"properties"`
	Presentation entities.Presentation  `json:"presentation"`
}

// OverlaySummary describes the overlay currently drawn
type OverlaySummary struct {
	Kind        entities.OverlayKind `json:"kind"`
	Sequence    uint64               `json:"sequence"`
	StyledNodes int                  `json:"styled_nodes"`
	StyledEdges int                  `json:"styled_edges"`
	// ids the result set named that the graph does not hold
	Unmatched int       `json:"unmatched"`
	AppliedAt time.Time `json:"applied_at"`
}

// CanvasView is the read model of the open topology
type CanvasView struct {
	WorkspaceID string                   `json:"workspace_id"`
	TopologyID  string                   `json:"topology_id,omitempty"`
	Persisted   bool                     `json:"persisted"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	ProfileType valueobjects.ProfileType `json:"profile_type"`
	Version     int                      `json:"version"`
	Modified    bool                     `json:"modified"`
	OverlayKind entities.OverlayKind     `json:"overlay_kind"`
	Overlay     *OverlaySummary          `json:"overlay,omitempty"`
	Nodes       []NodeView               `json:"nodes"`
	Edges       []EdgeView               `json:"edges"`
	InFlight    []Operation              `json:"in_flight"`
}

// Reports keeps the non-visual part of the latest simulation of each kind
type Reports struct {
	Powerflow   *results.PowerflowSummary  `json:"powerflow,omitempty"`
	ESG         *results.ESGResult         `json:"esg,omitempty"`
	Penetration *results.PenetrationResult `json:"penetration,omitempty"`
	Reliability *results.ReliabilityResult `json:"reliability,omitempty"`
}

// SimulationOutcome is the answer to a simulation run.
// A stale outcome was computed for a graph or request that has since been
// superseded; nothing was applied.
type SimulationOutcome struct {
	Kind     results.Kind    `json:"kind"`
	Sequence uint64          `json:"sequence"`
	Stale    bool            `json:"stale"`
	Overlay  *OverlaySummary `json:"overlay,omitempty"`
}

// SaveOutcome is the answer to a save
type SaveOutcome struct {
	TopologyID string `json:"topology_id"`
	Created    bool   `json:"created"`
	// false when the graph was replaced while the save was in flight
	Applied bool `json:"applied"`
}

// ChangesView lists the unsaved edits of the open topology
type ChangesView struct {
	TopologyID string          `json:"topology_id,omitempty"`
	Modified   bool            `json:"modified"`
	Checksum   string          `json:"baseline_checksum,omitempty"`
	Diff       versioning.Diff `json:"diff"`
}

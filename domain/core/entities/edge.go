package entities

import (
	"feeder-workbench/domain/core/valueobjects"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Edge is a directed connection between two nodes of the same topology
type Edge struct {
	id           valueobjects.EdgeID
	from         valueobjects.NodeID
	to           valueobjects.NodeID
	label        string
	properties   map[string]interface{}
	presentation Presentation
}

// NewEdge creates an edge with neutral presentation.
// Endpoint existence is checked by the aggregate, not here.
func NewEdge(
	id valueobjects.EdgeID,
	from, to valueobjects.NodeID,
	label string,
	properties map[string]interface{},
) (*Edge, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("edge id cannot be empty")
	}
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.NewValidationError("edge endpoints cannot be empty")
	}

	return &Edge{
		id:           id,
		from:         from,
		to:           to,
		label:        label,
		properties:   CloneProperties(properties),
		presentation: Presentation{Style: NeutralEdgeStyle()},
	}, nil
}

// ID returns the edge's identifier
func (e *Edge) ID() valueobjects.EdgeID { return e.id }

// From returns the source node id
func (e *Edge) From() valueobjects.NodeID { return e.from }

// To returns the target node id
func (e *Edge) To() valueobjects.NodeID { return e.to }

// Label returns the optional edge label
func (e *Edge) Label() string { return e.label }

// Properties returns a copy of the edge's properties
func (e *Edge) Properties() map[string]interface{} { return CloneProperties(e.properties) }

// Presentation returns the current overlay-controlled fields
func (e *Edge) Presentation() Presentation { return e.presentation }

// Touches reports whether the edge has the node as an endpoint
func (e *Edge) Touches(id valueobjects.NodeID) bool {
	return e.from == id || e.to == id
}

// SetPresentation replaces the overlay-controlled fields
func (e *Edge) SetPresentation(p Presentation) {
	e.presentation = p
}

// Clone returns a deep copy
func (e *Edge) Clone() *Edge {
	c := *e
	c.properties = CloneProperties(e.properties)
	return &c
}

package entities

import (
	"feeder-workbench/domain/core/valueobjects"
)

// Marker is the decoration drawn at the head of an edge
type Marker string

const (
	MarkerNone  Marker = "none"
	MarkerArrow Marker = "arrow"
)

// Neutral colors used when no overlay applies to an entity
const (
	NeutralBackground = "#2a2a2a"
	NeutralBorder     = "#444"
	NeutralText       = "#fff"
)

// Style holds the renderable presentation of a node or an edge.
// Nodes use Background/Border; edges use Stroke/Marker/Animated.
type Style struct {
	Background  string `json:"background,omitempty"`
	Border      string `json:"border,omitempty"`
	BorderWidth int    `json:"border_width,omitempty"`
	Stroke      string `json:"stroke,omitempty"`
	StrokeWidth int    `json:"stroke_width,omitempty"`
	Marker      Marker `json:"marker,omitempty"`
	Animated    bool   `json:"animated"`
}

// NeutralNodeStyle is the style of a node no result set touches
func NeutralNodeStyle() Style {
	return Style{
		Background:  NeutralBackground,
		Border:      NeutralBorder,
		BorderWidth: 1,
		Marker:      MarkerNone,
	}
}

// NeutralEdgeStyle is the style of an edge no result set touches
func NeutralEdgeStyle() Style {
	return Style{Marker: MarkerNone}
}

// Derived carries the per-entity values a result set attached for display.
// Pointers distinguish "not reported" from zero.
type Derived struct {
	Status                  string   `json:"status,omitempty"`
	VoltagePu               *float64 `json:"voltage_pu,omitempty"`
	VoltageDeviationPercent *float64 `json:"voltage_deviation_percent,omitempty"`
	EmissionKgCO2           *float64 `json:"emission_kg_co2,omitempty"`
	Severity                string   `json:"severity,omitempty"`
	Affected                bool     `json:"affected,omitempty"`
	OnAttackPath            bool     `json:"on_attack_path,omitempty"`
}

// Presentation is everything an overlay may change on an entity
type Presentation struct {
	Style   Style   `json:"style"`
	Derived Derived `json:"derived"`
}

// OverlayKind names the result set an overlay was computed from
type OverlayKind string

const (
	OverlayNone      OverlayKind = ""
	OverlayPowerflow OverlayKind = "powerflow"
	OverlayEmission  OverlayKind = "emission"
	OverlaySecurity  OverlayKind = "security"
)

// Overlay is a complete presentation layer for one result set.
// Entities missing from the maps take their neutral style when it is applied.
type Overlay struct {
	Kind  OverlayKind                          `json:"kind"`
	Nodes map[valueobjects.NodeID]Presentation `json:"nodes"`
	Edges map[valueobjects.EdgeID]Presentation `json:"edges"`
}

// NewOverlay creates an empty overlay of the given kind
func NewOverlay(kind OverlayKind) Overlay {
	return Overlay{
		Kind:  kind,
		Nodes: make(map[valueobjects.NodeID]Presentation),
		Edges: make(map[valueobjects.EdgeID]Presentation),
	}
}

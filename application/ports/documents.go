package ports

import "time"

// TopologyDocument is the persisted form of a topology as the topology store exchanges it
type TopologyDocument struct {
	ID          string         `json:"id,omitempty"`
	UserID      string         `json:"user_id,omitempty"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description,omitempty"`
	ProfileType string         `json:"profile_type" validate:"omitempty,oneof=rural suburban urban"`
	Nodes       []NodeDocument `json:"nodes" validate:"dive"`
	Lines       []LineDocument `json:"lines" validate:"dive"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// NodeDocument is the persisted form of a node
type NodeDocument struct {
	ID         string                 `json:"id" validate:"required"`
	Type       string                 `json:"type" validate:"omitempty,oneof=bus transformer switch line ev_charger der"`
	Name       string                 `json:"name"`
	Position   PositionDocument       `json:"position"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// PositionDocument is the persisted form of a canvas position
type PositionDocument struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineDocument is the persisted form of an edge
type LineDocument struct {
	ID         string                 `json:"id" validate:"required"`
	FromNodeID string                 `json:"from_node_id" validate:"required"`
	ToNodeID   string                 `json:"to_node_id" validate:"required"`
	Name       string                 `json:"name,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// SimulationTopology is the topology block every simulation request carries
type SimulationTopology struct {
	Nodes       []NodeDocument `json:"nodes"`
	Lines       []LineDocument `json:"lines"`
	ProfileType string         `json:"profile_type,omitempty"`
}

// Profile describes the typical characteristics of a feeder profile
type Profile struct {
	Type            string                 `json:"type"`
	Name            string                 `json:"name"`
	Characteristics map[string]interface{} `json:"characteristics"`
}

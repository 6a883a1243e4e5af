// Package commands defines the state-changing operations of the workbench.
// Every command validates its own fields with struct tags before dispatch.
package commands

import (
	"feeder-workbench/domain/results"
	"feeder-workbench/pkg/utils"
)

// AddNodeCommand places a new asset on the canvas
type AddNodeCommand struct {
	AssetType string  `json:"type" validate:"omitempty,oneof=bus transformer switch line ev_charger der"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Name      string  `json:"name" validate:"max=200"`
}

func (c AddNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// ConnectEdgeCommand draws a line between two nodes
type ConnectEdgeCommand struct {
	FromNodeID string `json:"from_node_id" validate:"required"`
	ToNodeID   string `json:"to_node_id" validate:"required"`
	Label      string `json:"label" validate:"max=200"`
}

func (c ConnectEdgeCommand) Validate() error { return utils.ValidateStruct(c) }

// MoveNodeCommand repositions a node
type MoveNodeCommand struct {
	NodeID string  `json:"node_id" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (c MoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RenameNodeCommand changes a node's display name
type RenameNodeCommand struct {
	NodeID string `json:"node_id" validate:"required"`
	Name   string `json:"name" validate:"required,max=200"`
}

func (c RenameNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateNodePropertiesCommand replaces a node's property bag
type UpdateNodePropertiesCommand struct {
	NodeID     string                 `json:"node_id" validate:"required"`
	Properties map[string]interface{} `json:"properties"`
}

func (c UpdateNodePropertiesCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveNodeCommand deletes a node and its incident edges
type RemoveNodeCommand struct {
	NodeID string `json:"node_id" validate:"required"`
}

func (c RemoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveEdgeCommand deletes an edge
type RemoveEdgeCommand struct {
	EdgeID string `json:"edge_id" validate:"required"`
}

func (c RemoveEdgeCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateTopologyCommand edits the topology header. Nil fields are left alone.
type UpdateTopologyCommand struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ProfileType *string `json:"profile_type,omitempty" validate:"omitempty,oneof=rural suburban urban"`
}

func (c UpdateTopologyCommand) Validate() error { return utils.ValidateStruct(c) }

// NewDraftCommand discards the open topology and starts an empty one
type NewDraftCommand struct {
	Name        string `json:"name" validate:"max=200"`
	ProfileType string `json:"profile_type" validate:"omitempty,oneof=rural suburban urban"`
}

func (c NewDraftCommand) Validate() error { return utils.ValidateStruct(c) }

// ClearOverlayCommand returns every entity to its neutral style
type ClearOverlayCommand struct{}

func (c ClearOverlayCommand) Validate() error { return nil }

// SaveTopologyCommand persists the open topology
type SaveTopologyCommand struct{}

func (c SaveTopologyCommand) Validate() error { return nil }

// LoadTopologyCommand opens a persisted topology; an empty id opens the first one listed
type LoadTopologyCommand struct {
	TopologyID string `json:"topology_id"`
}

func (c LoadTopologyCommand) Validate() error { return nil }

// DeleteTopologyCommand removes a persisted topology
type DeleteTopologyCommand struct {
	TopologyID string `json:"topology_id" validate:"required"`
}

func (c DeleteTopologyCommand) Validate() error { return utils.ValidateStruct(c) }

// RunPowerflowCommand runs a power-flow study
type RunPowerflowCommand struct{}

func (c RunPowerflowCommand) Validate() error { return nil }

// RunESGCommand runs an emissions study; zero parameters take defaults
type RunESGCommand struct {
	TimeHours            float64 `json:"time_hours" validate:"gte=0"`
	EVChargingHours      float64 `json:"ev_charging_hours" validate:"gte=0"`
	SolarGenerationHours float64 `json:"solar_generation_hours" validate:"gte=0"`
	BatteryCycles        float64 `json:"battery_cycles" validate:"gte=0"`
}

func (c RunESGCommand) Validate() error { return utils.ValidateStruct(c) }

// Parameters converts the command into run parameters
func (c RunESGCommand) Parameters() results.ESGParameters {
	return results.ESGParameters{
		TimeHours:            c.TimeHours,
		EVChargingHours:      c.EVChargingHours,
		SolarGenerationHours: c.SolarGenerationHours,
		BatteryCycles:        c.BatteryCycles,
	}
}

// RunPenetrationCommand runs the selected attack scenarios
type RunPenetrationCommand struct {
	Scenarios []string `json:"scenarios" validate:"required,min=1,dive,required"`
	Targets   []string `json:"targets" validate:"dive,required"`
}

func (c RunPenetrationCommand) Validate() error { return utils.ValidateStruct(c) }

// RunReliabilityCommand runs a reliability study
type RunReliabilityCommand struct {
	Parameters results.ReliabilityParameters `json:"parameters"`
}

func (c RunReliabilityCommand) Validate() error { return utils.ValidateStruct(c) }

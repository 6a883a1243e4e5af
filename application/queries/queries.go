// Package queries defines the read-only questions the workbench answers
package queries

import (
	"time"

	"feeder-workbench/domain/permissions"
	"feeder-workbench/pkg/utils"
)

// GetCanvasQuery returns the open topology as drawn
type GetCanvasQuery struct{}

func (q GetCanvasQuery) Validate() error { return nil }

// GetChangesQuery lists the unsaved edits of the open topology
type GetChangesQuery struct{}

func (q GetChangesQuery) Validate() error { return nil }

// GetReportsQuery returns the reports of the latest simulations
type GetReportsQuery struct{}

func (q GetReportsQuery) Validate() error { return nil }

// ListTopologiesQuery lists the persisted topologies
type ListTopologiesQuery struct{}

func (q ListTopologiesQuery) Validate() error { return nil }

// TopologySummaryDTO is one row of the topology list
type TopologySummaryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProfileType string    `json:"profile_type"`
	NodeCount   int       `json:"node_count"`
	LineCount   int       `json:"line_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetPermissionsQuery reports what the session may do
type GetPermissionsQuery struct{}

func (q GetPermissionsQuery) Validate() error { return nil }

// PermissionsDTO is the gate's answer for the current session
type PermissionsDTO struct {
	Features        map[permissions.Feature]bool  `json:"features"`
	Topologies      permissions.TopologyAllowance `json:"topologies"`
	CanSimulate     bool                          `json:"can_simulate"`
	SimulationsMax  int                           `json:"simulations_max,omitempty"`
	SimulationsUsed int                           `json:"simulations_used,omitempty"`
}

// ListScenariosQuery returns the penetration scenario catalog grouped by layer
type ListScenariosQuery struct{}

func (q ListScenariosQuery) Validate() error { return nil }

// CacheKey implements bus.CacheableQuery
func (q ListScenariosQuery) CacheKey() string { return "all" }

// ListProfilesQuery lists the feeder profile descriptions
type ListProfilesQuery struct{}

func (q ListProfilesQuery) Validate() error { return nil }

// CacheKey implements bus.CacheableQuery
func (q ListProfilesQuery) CacheKey() string { return "all" }

// GetProfileQuery describes one feeder profile
type GetProfileQuery struct {
	ProfileType string `json:"profile_type" validate:"required,oneof=rural suburban urban"`
}

func (q GetProfileQuery) Validate() error { return utils.ValidateStruct(q) }

// CacheKey implements bus.CacheableQuery
func (q GetProfileQuery) CacheKey() string { return q.ProfileType }

// GetSessionQuery returns the session state
type GetSessionQuery struct{}

func (q GetSessionQuery) Validate() error { return nil }

// GetAuthURLQuery asks where to send the operator to log in
type GetAuthURLQuery struct {
	Provider string `json:"provider" validate:"required,oneof=google github"`
	State    string `json:"state"`
}

func (q GetAuthURLQuery) Validate() error { return utils.ValidateStruct(q) }

// PaymentHistoryQuery lists past payments
type PaymentHistoryQuery struct{}

func (q PaymentHistoryQuery) Validate() error { return nil }

// Package permissions decides whether a session may use a feature, create a
// topology or run a simulation. Every answer is advisory: the backends own the
// authoritative limits.
package permissions

import (
	"feeder-workbench/domain/config"
	"feeder-workbench/domain/identity"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Feature is a capability guarded by the subscription
type Feature string

const (
	Feature3DRendering      Feature = "3d_rendering"
	FeatureAIPrediction     Feature = "ai_prediction"
	FeatureAdvancedSecurity Feature = "advanced_security"
	FeatureAPIAccess        Feature = "api_access"
)

// AllFeatures lists every guarded feature
var AllFeatures = []Feature{
	Feature3DRendering,
	FeatureAIPrediction,
	FeatureAdvancedSecurity,
	FeatureAPIAccess,
}

// Session is the narrow read view of the authentication state the gate needs
type Session interface {
	IsAuthenticated() bool
	Tier() identity.Tier
	// Quota returns nil until the identity service has reported one
	Quota() *identity.Quota
}

// TopologyAllowance is the answer to CanCreateTopology
type TopologyAllowance struct {
	Allowed   bool `json:"allowed"`
	Used      int  `json:"used"`
	Max       int  `json:"max"`
	Unbounded bool `json:"unbounded"`
}

// Gate evaluates quota and feature state
type Gate struct {
	rules *config.DomainConfig
}

// NewGate creates a permission gate
func NewGate(rules *config.DomainConfig) *Gate {
	if rules == nil {
		rules = config.DefaultDomainConfig()
	}
	return &Gate{rules: rules}
}

// CanUseFeature reports whether the session may use a guarded feature
func (g *Gate) CanUseFeature(feature Feature, session Session) bool {
	if session == nil || !session.IsAuthenticated() {
		switch feature {
		case Feature3DRendering, FeatureAIPrediction, FeatureAdvancedSecurity, FeatureAPIAccess:
			return false
		default:
			return true
		}
	}

	quota := session.Quota()
	if quota == nil {
		switch session.Tier() {
		case identity.TierPremium:
			return true
		case identity.TierFree:
			return feature != FeatureAPIAccess
		default:
			return false
		}
	}

	switch feature {
	case Feature3DRendering:
		return quota.CanUse3DRendering
	case FeatureAIPrediction:
		return quota.CanUseAIPrediction
	case FeatureAdvancedSecurity:
		return quota.CanUseAdvancedSecurity
	case FeatureAPIAccess:
		return quota.CanAccessAPI
	default:
		return true
	}
}

// CanCreateTopology reports whether another durable topology may be created,
// with the usage pair for display
func (g *Gate) CanCreateTopology(session Session) TopologyAllowance {
	if session == nil || !session.IsAuthenticated() {
		return TopologyAllowance{Allowed: true, Used: 0, Max: g.rules.DemoTopologyCeiling}
	}

	quota := session.Quota()
	if quota == nil {
		return TopologyAllowance{Allowed: true, Used: 0, Max: g.rules.UnboundedSentinel, Unbounded: true}
	}

	return TopologyAllowance{
		Allowed:   quota.UsedTopologies < quota.MaxTopologies,
		Used:      quota.UsedTopologies,
		Max:       quota.MaxTopologies,
		Unbounded: quota.MaxTopologies >= g.rules.UnboundedSentinel,
	}
}

// CanRunSimulation reports whether the session has simulations left today
func (g *Gate) CanRunSimulation(session Session) bool {
	if session == nil || !session.IsAuthenticated() {
		return true
	}
	quota := session.Quota()
	if quota == nil {
		return true
	}
	return quota.UsedSimulationsToday < quota.MaxSimulationsPerDay
}

// RequireFeature returns PermissionDenied when CanUseFeature is false
func (g *Gate) RequireFeature(feature Feature, session Session) error {
	if !g.CanUseFeature(feature, session) {
		return pkgerrors.NewPermissionDenied("feature not available on this plan").
			WithCode("FEATURE_LOCKED").
			WithDetail("feature", string(feature))
	}
	return nil
}

// RequireTopologySlot returns PermissionDenied when CanCreateTopology is false
func (g *Gate) RequireTopologySlot(session Session) error {
	allowance := g.CanCreateTopology(session)
	if !allowance.Allowed {
		return pkgerrors.NewPermissionDenied("topology quota exhausted").
			WithCode("TOPOLOGY_QUOTA").
			WithDetail("used", allowance.Used).
			WithDetail("max", allowance.Max)
	}
	return nil
}

// RequireSimulation returns PermissionDenied when CanRunSimulation is false
func (g *Gate) RequireSimulation(session Session) error {
	if !g.CanRunSimulation(session) {
		return pkgerrors.NewPermissionDenied("daily simulation quota exhausted").
			WithCode("SIMULATION_QUOTA")
	}
	return nil
}

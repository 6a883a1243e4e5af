package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"feeder-workbench/domain/identity"
	pkgerrors "feeder-workbench/pkg/errors"
)

type stubSession struct {
	authenticated bool
	tier          identity.Tier
	quota         *identity.Quota
}

func (s stubSession) IsAuthenticated() bool  { return s.authenticated }
func (s stubSession) Tier() identity.Tier    { return s.tier }
func (s stubSession) Quota() *identity.Quota { return s.quota }

var anonymous = stubSession{}

func TestCanUseFeature(t *testing.T) {
	gate := NewGate(nil)

	tests := []struct {
		name    string
		session Session
		feature Feature
		want    bool
	}{
		{"anonymous 3d", anonymous, Feature3DRendering, false},
		{"anonymous api", anonymous, FeatureAPIAccess, false},
		{"nil session", nil, FeatureAdvancedSecurity, false},
		{"premium without quota", stubSession{authenticated: true, tier: identity.TierPremium}, FeatureAPIAccess, true},
		{"free without quota", stubSession{authenticated: true, tier: identity.TierFree}, FeatureAdvancedSecurity, true},
		{"free without quota api", stubSession{authenticated: true, tier: identity.TierFree}, FeatureAPIAccess, false},
		{"demo tier without quota", stubSession{authenticated: true, tier: identity.TierDemo}, FeatureAIPrediction, false},
		{"quota flag wins over tier", stubSession{
			authenticated: true,
			tier:          identity.TierPremium,
			quota:         &identity.Quota{CanUseAdvancedSecurity: false},
		}, FeatureAdvancedSecurity, false},
		{"quota flag set", stubSession{
			authenticated: true,
			tier:          identity.TierFree,
			quota:         &identity.Quota{CanUse3DRendering: true},
		}, Feature3DRendering, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.CanUseFeature(tt.feature, tt.session))
		})
	}
}

func TestCanCreateTopology(t *testing.T) {
	gate := NewGate(nil)

	t.Run("anonymous gets soft ceiling of three", func(t *testing.T) {
		a := gate.CanCreateTopology(anonymous)
		assert.True(t, a.Allowed)
		assert.Equal(t, 0, a.Used)
		assert.Equal(t, 3, a.Max)
	})

	t.Run("authenticated without quota is unbounded", func(t *testing.T) {
		a := gate.CanCreateTopology(stubSession{authenticated: true, tier: identity.TierFree})
		assert.True(t, a.Allowed)
		assert.True(t, a.Unbounded)
	})

	t.Run("blocks exactly at the limit", func(t *testing.T) {
		below := gate.CanCreateTopology(stubSession{authenticated: true, quota: &identity.Quota{UsedTopologies: 4, MaxTopologies: 5}})
		assert.True(t, below.Allowed)

		at := gate.CanCreateTopology(stubSession{authenticated: true, quota: &identity.Quota{UsedTopologies: 5, MaxTopologies: 5}})
		assert.False(t, at.Allowed)
		assert.Equal(t, 5, at.Used)
		assert.Equal(t, 5, at.Max)
		assert.False(t, at.Unbounded)
	})

	t.Run("sentinel reports unbounded", func(t *testing.T) {
		a := gate.CanCreateTopology(stubSession{authenticated: true, quota: &identity.Quota{UsedTopologies: 40, MaxTopologies: 999999}})
		assert.True(t, a.Allowed)
		assert.True(t, a.Unbounded)
	})

	t.Run("require returns permission denied", func(t *testing.T) {
		err := gate.RequireTopologySlot(stubSession{authenticated: true, quota: &identity.Quota{UsedTopologies: 1, MaxTopologies: 1}})
		assert.True(t, pkgerrors.IsPermissionDenied(err))
	})
}

func TestCanRunSimulation(t *testing.T) {
	gate := NewGate(nil)

	assert.True(t, gate.CanRunSimulation(anonymous))
	assert.True(t, gate.CanRunSimulation(stubSession{authenticated: true}))
	assert.True(t, gate.CanRunSimulation(stubSession{authenticated: true, quota: &identity.Quota{UsedSimulationsToday: 9, MaxSimulationsPerDay: 10}}))
	assert.False(t, gate.CanRunSimulation(stubSession{authenticated: true, quota: &identity.Quota{UsedSimulationsToday: 10, MaxSimulationsPerDay: 10}}))

	err := gate.RequireSimulation(stubSession{authenticated: true, quota: &identity.Quota{}})
	assert.True(t, pkgerrors.IsPermissionDenied(err))
	assert.NoError(t, gate.RequireSimulation(anonymous))
}

func TestRequireFeature(t *testing.T) {
	gate := NewGate(nil)

	err := gate.RequireFeature(FeatureAdvancedSecurity, anonymous)
	assert.True(t, pkgerrors.IsPermissionDenied(err))
	assert.Equal(t, "FEATURE_LOCKED", pkgerrors.GetAppError(err).Code)

	assert.NoError(t, gate.RequireFeature(FeatureAdvancedSecurity, stubSession{authenticated: true, tier: identity.TierPremium}))
}

package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Rank(t *testing.T) {
	assert.Equal(t, 1, SeverityLow.Rank())
	assert.Equal(t, 2, SeverityMedium.Rank())
	assert.Equal(t, 3, SeverityHigh.Rank())
	assert.Equal(t, 4, SeverityCritical.Rank())
	assert.Equal(t, 0, Severity("info").Rank())
}

func TestMaxSeverity(t *testing.T) {
	tests := []struct {
		a, b Severity
		want Severity
	}{
		{SeverityLow, SeverityCritical, SeverityCritical},
		{SeverityHigh, SeverityMedium, SeverityHigh},
		{"", SeverityLow, SeverityLow},
		{SeverityMedium, "bogus", SeverityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxSeverity(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("high")
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, s)

	_, err = ParseSeverity("info")
	assert.Error(t, err)
}

func TestCatalog_GroupByLayer(t *testing.T) {
	catalog := Catalog{Scenarios: []Scenario{
		{ID: "phy-tamper", Layer: 1, Severity: SeverityHigh},
		{ID: "sql-injection", Layer: 7, Severity: SeverityCritical},
		{ID: "xss", Layer: 7, Severity: SeverityHigh},
		{ID: "arp-spoof", Layer: 2, Severity: SeverityMedium},
	}}

	groups := catalog.GroupByLayer()
	require.Len(t, groups, 3)
	assert.Equal(t, 7, groups[0].Layer)
	assert.Equal(t, "application", groups[0].Name)
	assert.Equal(t, "sql-injection", groups[0].Scenarios[0].ID)
	assert.Equal(t, "xss", groups[0].Scenarios[1].ID)
	assert.Equal(t, 2, groups[1].Layer)
	assert.Equal(t, 1, groups[2].Layer)

	assert.True(t, catalog.Has("xss"))
	assert.False(t, catalog.Has("dns-poison"))
}

func TestResultKinds(t *testing.T) {
	assert.Equal(t, KindPowerflow, PowerflowResult{}.Kind())
	assert.Equal(t, KindEmission, ESGResult{}.Kind())
	assert.Equal(t, KindAttack, PenetrationResult{}.Kind())
	assert.Equal(t, KindReliability, ReliabilityResult{}.Kind())
}

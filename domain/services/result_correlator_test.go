package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeder-workbench/domain/core/aggregates"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
)

func testSnapshot() aggregates.Snapshot {
	return aggregates.Snapshot{
		Nodes: []aggregates.NodeData{
			{ID: "A", AssetType: valueobjects.AssetBus},
			{ID: "B", AssetType: valueobjects.AssetBus},
			{ID: "N", AssetType: valueobjects.AssetTransformer},
		},
		Edges: []aggregates.EdgeData{
			{ID: "e-ab", From: "A", To: "B"},
			{ID: "e-bn", From: "B", To: "N"},
		},
	}
}

func TestCorrelate_Powerflow(t *testing.T) {
	c := NewResultCorrelator()

	corr, err := c.Correlate(testSnapshot(), results.PowerflowResult{
		Nodes: []results.PowerflowNode{
			{NodeID: "A", VoltagePu: 0.91, VoltageDeviationPercent: -9, Status: results.StatusCritical},
			{NodeID: "B", VoltagePu: 1.0, Status: results.StatusNormal},
			{NodeID: "ghost", Status: results.StatusWarning},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, results.KindPowerflow, corr.Kind)
	require.Len(t, corr.Nodes, 2)
	assert.Equal(t, results.StatusCritical, corr.Nodes["A"].Status)
	assert.InDelta(t, 0.91, *corr.Nodes["A"].VoltagePu, 1e-9)
	assert.Equal(t, results.StatusNormal, corr.Nodes["B"].Status)
	assert.Empty(t, corr.Edges)
	assert.Equal(t, 1, corr.Unmatched)
}

func TestCorrelate_Emission(t *testing.T) {
	c := NewResultCorrelator()

	corr, err := c.Correlate(testSnapshot(), results.ESGResult{
		NodeEmissions: []results.EmissionRecord{
			{NodeID: "A", EmissionKgCO2: -5},
			{NodeID: "B", EmissionKgCO2: 3},
			{NodeID: "B", EmissionKgCO2: 10},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, corr.EmissionScale)
	assert.Equal(t, -5.0, *corr.Nodes["A"].EmissionKgCO2)
	assert.Equal(t, 10.0, *corr.Nodes["B"].EmissionKgCO2, "last record for a node wins")
	assert.Equal(t, 0, corr.Unmatched)
}

func TestEmissionScale_FloorsAtOne(t *testing.T) {
	assert.Equal(t, 1.0, EmissionScale(map[string]float64{"a": 0.2, "b": -0.5}))
	assert.Equal(t, 1.0, EmissionScale(nil))
	assert.Equal(t, 12.0, EmissionScale(map[string]float64{"a": -12, "b": 4}))
}

func TestCorrelate_AttacksTakeMaxSeverity(t *testing.T) {
	c := NewResultCorrelator()

	corr, err := c.Correlate(testSnapshot(), results.PenetrationResult{
		Attacks: []results.AttackResult{
			{AttackID: "1", Severity: results.SeverityMedium, AffectedNodeIDs: []string{"N"}},
			{AttackID: "2", Severity: results.SeverityHigh, AffectedNodeIDs: []string{"N"}},
			{AttackID: "3", Severity: results.SeverityLow, AffectedNodeIDs: []string{"A"}},
			{AttackID: "4", Severity: results.SeverityCritical, AffectedNodeIDs: []string{"A"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, results.SeverityHigh, corr.Nodes["N"].Severity)
	assert.Equal(t, results.SeverityCritical, corr.Nodes["A"].Severity)
	assert.True(t, corr.Nodes["A"].Affected)
	_, touched := corr.Nodes["B"]
	assert.False(t, touched)
}

func TestCorrelate_AttackPathAndAffectedEdges(t *testing.T) {
	c := NewResultCorrelator()

	corr, err := c.Correlate(testSnapshot(), results.PenetrationResult{
		Attacks: []results.AttackResult{
			{
				AttackID:        "1",
				Severity:        results.SeverityHigh,
				AffectedEdgeIDs: []string{"e-ab", "e-bn", "e-missing"},
				AttackPath: []results.PathStep{
					{From: "external", To: "A"},
					{From: "A", To: "B"},
					{From: "N", To: "B"},
				},
			},
		},
	})
	require.NoError(t, err)

	ab := corr.Edges["e-ab"]
	assert.True(t, ab.Affected)
	assert.True(t, ab.OnAttackPath)

	bn := corr.Edges["e-bn"]
	assert.True(t, bn.Affected)
	assert.False(t, bn.OnAttackPath, "path steps match edge direction")

	assert.Equal(t, 1, corr.Unmatched)
}

func TestCorrelate_RejectsNonOverlayKinds(t *testing.T) {
	c := NewResultCorrelator()

	_, err := c.Correlate(testSnapshot(), results.ReliabilityResult{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = c.Correlate(testSnapshot(), nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

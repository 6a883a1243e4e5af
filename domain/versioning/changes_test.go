package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeder-workbench/domain/core/aggregates"
	"feeder-workbench/domain/core/valueobjects"
)

func snapshot() aggregates.Snapshot {
	return aggregates.Snapshot{
		Name:        "Main St",
		ProfileType: valueobjects.ProfileRural,
		Nodes: []aggregates.NodeData{
			{ID: "bus-1", AssetType: valueobjects.AssetBus, Position: valueobjects.Position{X: 1, Y: 2}},
			{ID: "der-1", AssetType: valueobjects.AssetDER, Properties: map[string]interface{}{"kw": 5.0}},
		},
		Edges: []aggregates.EdgeData{{ID: "line-1", From: "bus-1", To: "der-1"}},
	}
}

func TestCapture_IgnoresOrderAndIdentity(t *testing.T) {
	a := snapshot()
	b := snapshot()
	b.ID = "topo-1"
	b.Nodes[0], b.Nodes[1] = b.Nodes[1], b.Nodes[0]

	ba, err := Capture(a)
	require.NoError(t, err)
	bb, err := Capture(b)
	require.NoError(t, err)

	assert.Equal(t, ba.Checksum, bb.Checksum)
	assert.True(t, Compare(ba, bb).IsEmpty())
}

func TestCompare(t *testing.T) {
	base, err := Capture(snapshot())
	require.NoError(t, err)

	next := snapshot()
	next.Name = "Renamed"
	next.Nodes[1].Properties = map[string]interface{}{"kw": 7.5}
	next.Nodes = append(next.Nodes, aggregates.NodeData{ID: "sw-1", AssetType: valueobjects.AssetSwitch})
	next.Edges = nil
	current, err := Capture(next)
	require.NoError(t, err)

	diff := Compare(base, current)
	assert.False(t, diff.IsEmpty())
	assert.True(t, diff.HeaderChanged)
	assert.Equal(t, []string{"sw-1"}, diff.Nodes.Added)
	assert.Equal(t, []string{"der-1"}, diff.Nodes.Modified)
	assert.Empty(t, diff.Nodes.Removed)
	assert.Equal(t, []string{"line-1"}, diff.Edges.Removed)
	assert.NotEqual(t, base.Checksum, current.Checksum)
}

func TestCompare_ZeroBaseline(t *testing.T) {
	current, err := Capture(snapshot())
	require.NoError(t, err)

	diff := Compare(Baseline{}, current)
	assert.True(t, diff.HeaderChanged)
	assert.Len(t, diff.Nodes.Added, 2)
	assert.Equal(t, []string{"line-1"}, diff.Edges.Added)
}

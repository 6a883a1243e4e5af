package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
)

func sampleDocument() ports.TopologyDocument {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return ports.TopologyDocument{
		ID:          "topo-42",
		Name:        "North feeder",
		Description: "pilot",
		ProfileType: "rural",
		Nodes: []ports.NodeDocument{
			{ID: "bus-1", Type: "bus", Name: "Substation", Position: ports.PositionDocument{X: 10, Y: 20},
				Properties: map[string]interface{}{"voltage_kv": 22.8}},
			{ID: "der-7", Type: "der", Name: "Solar farm", Position: ports.PositionDocument{X: -5.5, Y: 80},
				Properties: map[string]interface{}{"capacity_kw": 500.0, "tags": []interface{}{"pv"}}},
		},
		Lines: []ports.LineDocument{
			{ID: "line-1", FromNodeID: "bus-1", ToNodeID: "der-7", Name: "L1",
				Properties: map[string]interface{}{"length_km": 1.2}},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestToTopology_RoundTrip(t *testing.T) {
	a := NewAdapter(nil)
	doc := sampleDocument()

	topo, err := a.ToTopology(doc)
	require.NoError(t, err)

	assert.Equal(t, valueobjects.TopologyID("topo-42"), topo.ID())
	assert.Equal(t, valueobjects.ProfileRural, topo.ProfileType())
	assert.Empty(t, topo.GetUncommittedEvents())

	back := a.ToDocument(topo.SnapshotForPersistence())
	assert.Equal(t, doc.ID, back.ID)
	assert.Equal(t, doc.Name, back.Name)
	assert.Equal(t, doc.Description, back.Description)
	assert.Equal(t, doc.ProfileType, back.ProfileType)
	assert.Equal(t, doc.Nodes, back.Nodes)
	assert.Equal(t, doc.Lines, back.Lines)
}

func TestToTopology_EmptyTypeBecomesBus(t *testing.T) {
	a := NewAdapter(nil)
	doc := sampleDocument()
	doc.Nodes[0].Type = ""

	topo, err := a.ToTopology(doc)
	require.NoError(t, err)
	node, err := topo.GetNode("bus-1")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.AssetBus, node.AssetType())
}

func TestToTopology_Rejections(t *testing.T) {
	a := NewAdapter(nil)

	t.Run("dangling line", func(t *testing.T) {
		doc := sampleDocument()
		doc.Lines[0].ToNodeID = "missing"
		_, err := a.ToTopology(doc)
		assert.True(t, pkgerrors.IsIntegrityViolation(err))
	})

	t.Run("unknown asset type", func(t *testing.T) {
		doc := sampleDocument()
		doc.Nodes[1].Type = "windmill"
		_, err := a.ToTopology(doc)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("unknown profile", func(t *testing.T) {
		doc := sampleDocument()
		doc.ProfileType = "metro"
		_, err := a.ToTopology(doc)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("missing node id", func(t *testing.T) {
		doc := sampleDocument()
		doc.Nodes[0].ID = ""
		_, err := a.ToTopology(doc)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("duplicate node id", func(t *testing.T) {
		doc := sampleDocument()
		doc.Nodes[1].ID = "bus-1"
		doc.Lines = nil
		_, err := a.ToTopology(doc)
		assert.True(t, pkgerrors.IsIntegrityViolation(err))
	})
}

func TestFirst(t *testing.T) {
	a := NewAdapter(nil)

	_, err := a.First(nil)
	assert.True(t, pkgerrors.IsEmptyCollection(err))

	doc, err := a.First([]ports.TopologyDocument{{ID: "newest"}, {ID: "older"}})
	require.NoError(t, err)
	assert.Equal(t, "newest", doc.ID)
}

func TestToSimulationTopology(t *testing.T) {
	a := NewAdapter(nil)
	topo, err := a.ToTopology(sampleDocument())
	require.NoError(t, err)

	sim := a.ToSimulationTopology(topo.SnapshotForPersistence())
	assert.Len(t, sim.Nodes, 2)
	assert.Len(t, sim.Lines, 1)
	assert.Equal(t, "rural", sim.ProfileType)
}

func TestValidateResult(t *testing.T) {
	a := NewAdapter(nil)

	assert.NoError(t, a.ValidateResult(results.PowerflowResult{
		Nodes: []results.PowerflowNode{{NodeID: "A", Status: results.StatusNormal}},
	}))

	err := a.ValidateResult(results.PowerflowResult{
		Nodes: []results.PowerflowNode{{NodeID: "A", Status: "exploded"}},
	})
	assert.True(t, pkgerrors.IsValidation(err))

	err = a.ValidateResult(results.PenetrationResult{
		Attacks: []results.AttackResult{{AttackID: "x", Severity: "info"}},
	})
	assert.True(t, pkgerrors.IsValidation(err))

	assert.True(t, pkgerrors.IsValidation(a.ValidateResult(nil)))
}

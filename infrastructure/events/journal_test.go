package events

import (
	"context"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/events"
	"feeder-workbench/pkg/observability"
)

func added(version int, id string) events.DomainEvent {
	return events.NewNodeAdded("ws-1", version, valueobjects.NodeID(id), valueobjects.AssetType("bus"), time.Unix(int64(version), 0))
}

func TestJournal_RecentIsNewestFirst(t *testing.T) {
	metrics := observability.NewCollector("journal_test")
	j := NewJournal(4, metrics, nil)

	require.NoError(t, j.PublishBatch(context.Background(), []events.DomainEvent{added(1, "n1"), added(2, "n2")}))
	require.NoError(t, j.PublishBatch(context.Background(), []events.DomainEvent{events.NewEdgeRemoved("ws-1", 3, "e1", time.Unix(3, 0))}))

	recent := j.Recent(0, 0)
	require.Len(t, recent, 3)
	assert.Equal(t, uint64(3), recent[0].Sequence)
	assert.Equal(t, "topology.edge_removed", recent[0].EventType)
	assert.Equal(t, uint64(1), recent[2].Sequence)
	assert.Equal(t, uint64(3), j.Last())

	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.DomainEvents.WithLabelValues("topology.node_added")))
}

func TestJournal_RingDropsOldest(t *testing.T) {
	j := NewJournal(3, nil, nil)
	for v := 1; v <= 5; v++ {
		require.NoError(t, j.PublishBatch(context.Background(), []events.DomainEvent{added(v, "n")}))
	}

	recent := j.Recent(10, 0)
	require.Len(t, recent, 3)
	assert.Equal(t, []uint64{5, 4, 3}, []uint64{recent[0].Sequence, recent[1].Sequence, recent[2].Sequence})
}

func TestJournal_ResumeAfterSequence(t *testing.T) {
	j := NewJournal(10, nil, nil)
	for v := 1; v <= 4; v++ {
		require.NoError(t, j.PublishBatch(context.Background(), []events.DomainEvent{added(v, "n")}))
	}

	recent := j.Recent(10, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(4), recent[0].Sequence)
	assert.Equal(t, uint64(3), recent[1].Sequence)

	assert.Len(t, j.Recent(1, 0), 1)
	assert.Empty(t, NewJournal(2, nil, nil).Recent(5, 0))
}

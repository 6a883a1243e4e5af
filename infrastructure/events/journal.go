// Package events publishes topology domain events to the log and keeps the
// most recent ones for the REST facade's activity feed.
package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/events"
)

// DefaultCapacity is how many events the journal keeps
const DefaultCapacity = 256

// Counter counts published events by type
type Counter interface {
	RecordDomainEvent(eventType string)
}

// Record is a published event as the feed shows it
type Record struct {
	Sequence    uint64             `json:"sequence"`
	EventType   string             `json:"event_type"`
	AggregateID string             `json:"aggregate_id"`
	Version     int                `json:"version"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Event       events.DomainEvent `json:"event"`
}

// Journal is an in-process EventPublisher backed by a ring buffer
type Journal struct {
	mu       sync.RWMutex
	ring     []Record
	next     int
	full     bool
	sequence uint64

	counter Counter
	logger  *zap.Logger
}

var _ ports.EventPublisher = (*Journal)(nil)

// NewJournal creates a journal holding up to capacity events
func NewJournal(capacity int, counter Counter, logger *zap.Logger) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		ring:    make([]Record, capacity),
		counter: counter,
		logger:  logger,
	}
}

// PublishBatch appends events in order
func (j *Journal) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	if len(batch) == 0 {
		return nil
	}

	j.mu.Lock()
	for _, event := range batch {
		j.sequence++
		j.ring[j.next] = Record{
			Sequence:    j.sequence,
			EventType:   event.GetEventType(),
			AggregateID: event.GetAggregateID(),
			Version:     event.GetVersion(),
			OccurredAt:  event.GetTimestamp(),
			Event:       event,
		}
		j.next = (j.next + 1) % len(j.ring)
		if j.next == 0 {
			j.full = true
		}
	}
	j.mu.Unlock()

	for _, event := range batch {
		if j.counter != nil {
			j.counter.RecordDomainEvent(event.GetEventType())
		}
		j.logger.Debug("Domain event published",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Int("version", event.GetVersion()),
		)
	}
	return nil
}

// Recent returns up to limit events, newest first. Events with a sequence
// at or below after are skipped so a poller can resume where it left off.
func (j *Journal) Recent(limit int, after uint64) []Record {
	j.mu.RLock()
	defer j.mu.RUnlock()

	size := j.next
	if j.full {
		size = len(j.ring)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Record, 0, limit)
	for i := 0; i < size && len(out) < limit; i++ {
		idx := (j.next - 1 - i + len(j.ring)) % len(j.ring)
		rec := j.ring[idx]
		if rec.Sequence <= after {
			break
		}
		out = append(out, rec)
	}
	return out
}

// Last is the sequence of the newest event, zero when nothing was published
func (j *Journal) Last() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.sequence
}

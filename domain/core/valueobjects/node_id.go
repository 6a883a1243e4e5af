package valueobjects

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// NodeID identifies a node within one topology.
// Once assigned it never changes for the lifetime of the node.
type NodeID string

// EdgeID identifies an edge within one topology
type EdgeID string

// TopologyID is the server-assigned identifier of a persisted topology.
// It is empty until the first successful save.
type TopologyID string

// NewNodeIDFromString creates a NodeID from an existing string
func NewNodeIDFromString(id string) (NodeID, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New("node ID cannot be empty")
	}
	return NodeID(id), nil
}

// NewEdgeIDFromString creates an EdgeID from an existing string
func NewEdgeIDFromString(id string) (EdgeID, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New("edge ID cannot be empty")
	}
	return EdgeID(id), nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string { return string(id) }

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool { return id == "" }

// String returns the string representation of the EdgeID
func (id EdgeID) String() string { return string(id) }

// IsZero checks if the EdgeID is the zero value
func (id EdgeID) IsZero() bool { return id == "" }

// String returns the string representation of the TopologyID
func (id TopologyID) String() string { return string(id) }

// IsZero reports whether the topology has never been saved
func (id TopologyID) IsZero() bool { return id == "" }

// IDGenerator hands out node and edge ids of the form "<prefix>-<n>".
// The counter is monotonic and every candidate is checked against the
// caller's existing ids, so two additions in the same clock tick, or ids
// loaded from a saved document, can never collide.
type IDGenerator struct {
	mu      sync.Mutex
	counter uint64
}

// NewIDGenerator creates a generator starting at 1
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// NextNodeID returns a fresh id for a node of the given asset type
func (g *IDGenerator) NextNodeID(assetType AssetType, taken func(NodeID) bool) NodeID {
	return NodeID(g.next(string(assetType), func(candidate string) bool {
		return taken != nil && taken(NodeID(candidate))
	}))
}

// NextEdgeID returns a fresh id for an edge between two nodes
func (g *IDGenerator) NextEdgeID(from, to NodeID, taken func(EdgeID) bool) EdgeID {
	prefix := fmt.Sprintf("edge-%s-%s", from, to)
	return EdgeID(g.next(prefix, func(candidate string) bool {
		return taken != nil && taken(EdgeID(candidate))
	}))
}

func (g *IDGenerator) next(prefix string, taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		g.counter++
		candidate := fmt.Sprintf("%s-%d", prefix, g.counter)
		if !taken(candidate) {
			return candidate
		}
	}
}

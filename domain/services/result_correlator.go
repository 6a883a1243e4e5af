package services

import (
	"math"

	"feeder-workbench/domain/core/aggregates"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
)

// NodeAttributes are the values one result set derived for a node
type NodeAttributes struct {
	Status                  results.PowerflowStatus
	VoltagePu               *float64
	VoltageDeviationPercent *float64
	EmissionKgCO2           *float64
	Severity                results.Severity
	Affected                bool
}

// EdgeAttributes are the values one result set derived for an edge
type EdgeAttributes struct {
	Severity     results.Severity
	Affected     bool
	OnAttackPath bool
}

// Correlation joins one result set to the graph's identity space.
// It only covers entities that are both in the graph and in the result set;
// every other entity is implicitly back to the no-overlay default.
type Correlation struct {
	Kind  results.Kind
	Nodes map[valueobjects.NodeID]NodeAttributes
	Edges map[valueobjects.EdgeID]EdgeAttributes

	// EmissionScale is M = max(|e| over the set, 1); zero for other kinds
	EmissionScale float64

	// Unmatched counts distinct ids the result set named that the graph does not hold
	Unmatched int
}

func newCorrelation(kind results.Kind) *Correlation {
	return &Correlation{
		Kind:  kind,
		Nodes: make(map[valueobjects.NodeID]NodeAttributes),
		Edges: make(map[valueobjects.EdgeID]EdgeAttributes),
	}
}

// ResultCorrelator joins result sets of any kind to a graph snapshot
type ResultCorrelator struct{}

// NewResultCorrelator creates a new correlator
func NewResultCorrelator() *ResultCorrelator {
	return &ResultCorrelator{}
}

// Correlate derives per-entity attributes from one result set.
// Reliability results carry no per-entity overlay and are rejected.
func (c *ResultCorrelator) Correlate(snapshot aggregates.Snapshot, set results.Set) (*Correlation, error) {
	index := newGraphIndex(snapshot)

	switch r := set.(type) {
	case results.PowerflowResult:
		return c.correlatePowerflow(index, r), nil
	case results.ESGResult:
		return c.correlateEmission(index, r), nil
	case results.PenetrationResult:
		return c.correlateAttacks(index, r), nil
	case nil:
		return nil, pkgerrors.NewValidationError("result set is required")
	default:
		return nil, pkgerrors.NewValidationError("result kind cannot be overlaid: " + string(set.Kind()))
	}
}

func (c *ResultCorrelator) correlatePowerflow(index *graphIndex, r results.PowerflowResult) *Correlation {
	out := newCorrelation(results.KindPowerflow)
	unmatched := make(map[string]struct{})

	for _, rec := range r.Nodes {
		id := valueobjects.NodeID(rec.NodeID)
		if !index.hasNode(id) {
			unmatched[rec.NodeID] = struct{}{}
			continue
		}
		vpu := rec.VoltagePu
		dev := rec.VoltageDeviationPercent
		out.Nodes[id] = NodeAttributes{
			Status:                  rec.Status,
			VoltagePu:               &vpu,
			VoltageDeviationPercent: &dev,
		}
	}

	out.Unmatched = len(unmatched)
	return out
}

func (c *ResultCorrelator) correlateEmission(index *graphIndex, r results.ESGResult) *Correlation {
	out := newCorrelation(results.KindEmission)
	unmatched := make(map[string]struct{})

	// one value per node; a repeated node id keeps its last record
	values := make(map[string]float64, len(r.NodeEmissions))
	for _, rec := range r.NodeEmissions {
		values[rec.NodeID] = rec.EmissionKgCO2
	}

	out.EmissionScale = EmissionScale(values)

	for nodeID, e := range values {
		id := valueobjects.NodeID(nodeID)
		if !index.hasNode(id) {
			unmatched[nodeID] = struct{}{}
			continue
		}
		v := e
		out.Nodes[id] = NodeAttributes{EmissionKgCO2: &v}
	}

	out.Unmatched = len(unmatched)
	return out
}

func (c *ResultCorrelator) correlateAttacks(index *graphIndex, r results.PenetrationResult) *Correlation {
	out := newCorrelation(results.KindAttack)
	unmatched := make(map[string]struct{})

	for _, attack := range r.Attacks {
		for _, nodeID := range attack.AffectedNodeIDs {
			id := valueobjects.NodeID(nodeID)
			if !index.hasNode(id) {
				unmatched["node:"+nodeID] = struct{}{}
				continue
			}
			attrs := out.Nodes[id]
			attrs.Affected = true
			attrs.Severity = results.MaxSeverity(attrs.Severity, attack.Severity)
			out.Nodes[id] = attrs
		}

		for _, edgeID := range attack.AffectedEdgeIDs {
			id := valueobjects.EdgeID(edgeID)
			if !index.hasEdge(id) {
				unmatched["edge:"+edgeID] = struct{}{}
				continue
			}
			attrs := out.Edges[id]
			attrs.Affected = true
			attrs.Severity = results.MaxSeverity(attrs.Severity, attack.Severity)
			out.Edges[id] = attrs
		}

		// path steps that match no edge (entry points such as "external") are not styled
		for _, step := range attack.AttackPath {
			for _, id := range index.edgesBetween(valueobjects.NodeID(step.From), valueobjects.NodeID(step.To)) {
				attrs := out.Edges[id]
				attrs.OnAttackPath = true
				attrs.Severity = results.MaxSeverity(attrs.Severity, attack.Severity)
				out.Edges[id] = attrs
			}
		}
	}

	out.Unmatched = len(unmatched)
	return out
}

// EmissionScale returns M = max(|e| for every value, 1).
// The same M normalizes both positive and negative values.
func EmissionScale(values map[string]float64) float64 {
	m := 1.0
	for _, e := range values {
		if a := math.Abs(e); a > m {
			m = a
		}
	}
	return m
}

type nodePair struct {
	from valueobjects.NodeID
	to   valueobjects.NodeID
}

type graphIndex struct {
	nodes map[valueobjects.NodeID]struct{}
	edges map[valueobjects.EdgeID]struct{}
	pairs map[nodePair][]valueobjects.EdgeID
}

func newGraphIndex(snapshot aggregates.Snapshot) *graphIndex {
	idx := &graphIndex{
		nodes: make(map[valueobjects.NodeID]struct{}, len(snapshot.Nodes)),
		edges: make(map[valueobjects.EdgeID]struct{}, len(snapshot.Edges)),
		pairs: make(map[nodePair][]valueobjects.EdgeID, len(snapshot.Edges)),
	}
	for _, n := range snapshot.Nodes {
		idx.nodes[n.ID] = struct{}{}
	}
	for _, e := range snapshot.Edges {
		idx.edges[e.ID] = struct{}{}
		key := nodePair{from: e.From, to: e.To}
		idx.pairs[key] = append(idx.pairs[key], e.ID)
	}
	return idx
}

func (g *graphIndex) hasNode(id valueobjects.NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *graphIndex) hasEdge(id valueobjects.EdgeID) bool {
	_, ok := g.edges[id]
	return ok
}

// edgesBetween matches direction: a path step from→to only marks edges drawn from→to
func (g *graphIndex) edgesBetween(from, to valueobjects.NodeID) []valueobjects.EdgeID {
	return g.pairs[nodePair{from: from, to: to}]
}

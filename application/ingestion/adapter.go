// Package ingestion converts between the persisted topology document and the
// in-memory graph store, and validates every payload crossing that boundary.
package ingestion

import (
	"feeder-workbench/application/ports"
	"feeder-workbench/domain/config"
	"feeder-workbench/domain/core/aggregates"
	"feeder-workbench/domain/core/entities"
	"feeder-workbench/domain/core/valueobjects"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/utils"
)

// Adapter converts persisted documents into graph store form and back
type Adapter struct {
	rules *config.DomainConfig
}

// NewAdapter creates a new ingestion adapter
func NewAdapter(rules *config.DomainConfig) *Adapter {
	if rules == nil {
		rules = config.DefaultDomainConfig()
	}
	return &Adapter{rules: rules}
}

// ToTopology builds a graph store from a persisted document.
// Ids, positions, properties and names pass through verbatim. A dangling
// line fails the whole document with IntegrityViolation.
func (a *Adapter) ToTopology(doc ports.TopologyDocument) (*aggregates.Topology, error) {
	if err := utils.ValidateStruct(doc); err != nil {
		return nil, err
	}

	profile, err := valueobjects.ParseProfileType(doc.ProfileType)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	nodes := make([]*entities.Node, 0, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		node, err := a.toNode(nd)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	edges := make([]*entities.Edge, 0, len(doc.Lines))
	for _, ld := range doc.Lines {
		edge, err := entities.NewEdge(
			valueobjects.EdgeID(ld.ID),
			valueobjects.NodeID(ld.FromNodeID),
			valueobjects.NodeID(ld.ToNodeID),
			ld.Name,
			ld.Properties,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	topo, err := aggregates.NewTopologyWithRules(doc.Name, profile, a.rules)
	if err != nil {
		return nil, err
	}
	topo.SetDescription(doc.Description)
	if err := topo.ReplaceAll(nodes, edges); err != nil {
		return nil, err
	}
	if doc.ID != "" {
		if err := topo.MarkPersisted(valueobjects.TopologyID(doc.ID), doc.CreatedAt, doc.UpdatedAt); err != nil {
			return nil, err
		}
	}
	// loading is not an edit
	topo.MarkEventsAsCommitted()

	return topo, nil
}

func (a *Adapter) toNode(nd ports.NodeDocument) (*entities.Node, error) {
	assetType, err := valueobjects.ParseAssetType(nd.Type)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error()).WithDetail("node_id", nd.ID)
	}
	position, err := valueobjects.NewPosition(nd.Position.X, nd.Position.Y)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error()).WithDetail("node_id", nd.ID)
	}
	return entities.NewNode(valueobjects.NodeID(nd.ID), assetType, nd.Name, position, nd.Properties)
}

// First picks the topology to open when none was named.
// An empty list is a recoverable EmptyCollection notice.
func (a *Adapter) First(docs []ports.TopologyDocument) (ports.TopologyDocument, error) {
	if len(docs) == 0 {
		return ports.TopologyDocument{}, pkgerrors.NewEmptyCollection("topologies").
			WithCode("NO_TOPOLOGIES")
	}
	return docs[0], nil
}

// ToDocument converts a graph store snapshot into its persisted form
func (a *Adapter) ToDocument(snap aggregates.Snapshot) ports.TopologyDocument {
	doc := ports.TopologyDocument{
		ID:          snap.ID.String(),
		Name:        snap.Name,
		Description: snap.Description,
		ProfileType: snap.ProfileType.String(),
		Nodes:       make([]ports.NodeDocument, 0, len(snap.Nodes)),
		Lines:       make([]ports.LineDocument, 0, len(snap.Edges)),
	}
	for _, n := range snap.Nodes {
		doc.Nodes = append(doc.Nodes, ports.NodeDocument{
			ID:         n.ID.String(),
			Type:       n.AssetType.String(),
			Name:       n.DisplayName,
			Position:   ports.PositionDocument{X: n.Position.X, Y: n.Position.Y},
			Properties: n.Properties,
		})
	}
	for _, e := range snap.Edges {
		doc.Lines = append(doc.Lines, ports.LineDocument{
			ID:         e.ID.String(),
			FromNodeID: e.From.String(),
			ToNodeID:   e.To.String(),
			Name:       e.Label,
			Properties: e.Properties,
		})
	}
	return doc
}

// ToSimulationTopology converts a snapshot into the topology block of a simulation request
func (a *Adapter) ToSimulationTopology(snap aggregates.Snapshot) ports.SimulationTopology {
	doc := a.ToDocument(snap)
	return ports.SimulationTopology{
		Nodes:       doc.Nodes,
		Lines:       doc.Lines,
		ProfileType: doc.ProfileType,
	}
}

// ValidateResult checks a result set against its variant's shape before it
// reaches the correlator
func (a *Adapter) ValidateResult(set results.Set) error {
	if set == nil {
		return pkgerrors.NewValidationError("empty result set")
	}
	if err := utils.ValidateStruct(set); err != nil {
		return pkgerrors.Wrapf(err, "invalid %s result", set.Kind())
	}
	return nil
}

// ValidateCatalog checks a scenario catalog
func (a *Adapter) ValidateCatalog(catalog *results.Catalog) error {
	if catalog == nil {
		return pkgerrors.NewValidationError("empty scenario catalog")
	}
	return utils.ValidateStruct(catalog)
}

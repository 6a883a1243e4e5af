package entities

import (
	"strings"

	"feeder-workbench/domain/core/valueobjects"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Node is one electrical asset on the canvas.
// Identity and structure are fixed by the Topology aggregate; only the
// presentation can be replaced by an overlay.
type Node struct {
	id           valueobjects.NodeID
	assetType    valueobjects.AssetType
	displayName  string
	position     valueobjects.Position
	properties   map[string]interface{}
	presentation Presentation
}

// NewNode creates a node with neutral presentation
func NewNode(
	id valueobjects.NodeID,
	assetType valueobjects.AssetType,
	displayName string,
	position valueobjects.Position,
	properties map[string]interface{},
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node id cannot be empty")
	}
	if !assetType.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown asset type: " + assetType.String())
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = assetType.String()
	}

	return &Node{
		id:           id,
		assetType:    assetType,
		displayName:  displayName,
		position:     position,
		properties:   CloneProperties(properties),
		presentation: Presentation{Style: NeutralNodeStyle()},
	}, nil
}

// ID returns the node's identifier
func (n *Node) ID() valueobjects.NodeID { return n.id }

// AssetType returns the asset classification
func (n *Node) AssetType() valueobjects.AssetType { return n.assetType }

// DisplayName returns the canvas label
func (n *Node) DisplayName() string { return n.displayName }

// Position returns the canvas location
func (n *Node) Position() valueobjects.Position { return n.position }

// Properties returns a copy of the node's asset properties
func (n *Node) Properties() map[string]interface{} { return CloneProperties(n.properties) }

// Presentation returns the current overlay-controlled fields
func (n *Node) Presentation() Presentation { return n.presentation }

// MoveTo updates the canvas position
func (n *Node) MoveTo(position valueobjects.Position) {
	n.position = position
}

// Rename changes the display name
func (n *Node) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.NewValidationError("display name cannot be empty")
	}
	n.displayName = name
	return nil
}

// SetProperties replaces the asset properties
func (n *Node) SetProperties(properties map[string]interface{}) {
	n.properties = CloneProperties(properties)
}

// SetPresentation replaces the overlay-controlled fields
func (n *Node) SetPresentation(p Presentation) {
	n.presentation = p
}

// Clone returns a deep copy
func (n *Node) Clone() *Node {
	c := *n
	c.properties = CloneProperties(n.properties)
	return &c
}

// CloneProperties deep-copies a JSON-shaped property bag
func CloneProperties(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return map[string]interface{}{}
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CloneProperties(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

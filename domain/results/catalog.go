package results

import "fmt"

var layerNames = map[int]string{
	7: "application",
	6: "presentation",
	5: "session",
	4: "transport",
	3: "network",
	2: "datalink",
	1: "physical",
}

// LayerName returns the 7-layer model name for a layer number
func LayerName(layer int) string {
	if name, ok := layerNames[layer]; ok {
		return name
	}
	return fmt.Sprintf("layer-%d", layer)
}

// GroupByLayer groups the catalog from layer 7 down to layer 1.
// Layers without scenarios are omitted; order within a layer is preserved.
func (c Catalog) GroupByLayer() []LayerGroup {
	byLayer := make(map[int][]Scenario)
	for _, s := range c.Scenarios {
		byLayer[s.Layer] = append(byLayer[s.Layer], s)
	}

	groups := make([]LayerGroup, 0, len(byLayer))
	for layer := 7; layer >= 1; layer-- {
		scenarios, ok := byLayer[layer]
		if !ok {
			continue
		}
		groups = append(groups, LayerGroup{
			Layer:     layer,
			Name:      LayerName(layer),
			Scenarios: scenarios,
		})
	}
	return groups
}

// Has reports whether the catalog lists a scenario id
func (c Catalog) Has(id string) bool {
	for _, s := range c.Scenarios {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Package visual turns correlated result attributes into renderable styles.
// Every function here is pure: identical input always yields identical output.
package visual

import (
	"fmt"
	"math"

	"feeder-workbench/domain/core/entities"
	"feeder-workbench/domain/results"
	"feeder-workbench/domain/services"
)

// Powerflow status colors
const (
	PowerflowNormalBackground   = "#10b981"
	PowerflowNormalBorder       = "#059669"
	PowerflowWarningBackground  = "#fbbf24"
	PowerflowWarningBorder      = "#f59e0b"
	PowerflowCriticalBackground = "#ef4444"
	PowerflowCriticalBorder     = "#dc2626"
)

// Security edge strokes
const (
	AttackPathStroke = "#ef4444"
	AffectedStroke   = "#f59e0b"
)

const (
	powerflowBorderWidth = 2
	emissionBorderWidth  = 2
	securityBorderWidth  = 3
	attackPathWidth      = 3
	affectedWidth        = 2
	borderShift          = 20
)

type colorPair struct {
	background string
	border     string
}

var severityColors = map[results.Severity]colorPair{
	results.SeverityLow:      {background: "#fbbf24", border: "#f59e0b"},
	results.SeverityMedium:   {background: "#f59e0b", border: "#d97706"},
	results.SeverityHigh:     {background: "#ef4444", border: "#dc2626"},
	results.SeverityCritical: {background: "#dc2626", border: "#991b1b"},
}

// Policy maps a correlation to a complete overlay
type Policy struct{}

// NewPolicy creates the visual encoding policy
func NewPolicy() *Policy {
	return &Policy{}
}

// Encode builds the overlay for one correlation
func (p *Policy) Encode(c *services.Correlation) entities.Overlay {
	if c == nil {
		return entities.NewOverlay(entities.OverlayNone)
	}

	switch c.Kind {
	case results.KindPowerflow:
		return p.encodePowerflow(c)
	case results.KindEmission:
		return p.encodeEmission(c)
	case results.KindAttack:
		return p.encodeSecurity(c)
	default:
		return entities.NewOverlay(entities.OverlayNone)
	}
}

func (p *Policy) encodePowerflow(c *services.Correlation) entities.Overlay {
	overlay := entities.NewOverlay(entities.OverlayPowerflow)
	for id, attrs := range c.Nodes {
		overlay.Nodes[id] = entities.Presentation{
			Style: PowerflowStyle(attrs.Status),
			Derived: entities.Derived{
				Status:                  string(attrs.Status),
				VoltagePu:               attrs.VoltagePu,
				VoltageDeviationPercent: attrs.VoltageDeviationPercent,
			},
		}
	}
	return overlay
}

func (p *Policy) encodeEmission(c *services.Correlation) entities.Overlay {
	overlay := entities.NewOverlay(entities.OverlayEmission)
	for id, attrs := range c.Nodes {
		var e float64
		if attrs.EmissionKgCO2 != nil {
			e = *attrs.EmissionKgCO2
		}
		overlay.Nodes[id] = entities.Presentation{
			Style:   EmissionStyle(e, c.EmissionScale),
			Derived: entities.Derived{EmissionKgCO2: attrs.EmissionKgCO2},
		}
	}
	return overlay
}

func (p *Policy) encodeSecurity(c *services.Correlation) entities.Overlay {
	overlay := entities.NewOverlay(entities.OverlaySecurity)
	for id, attrs := range c.Nodes {
		overlay.Nodes[id] = entities.Presentation{
			Style: SecurityNodeStyle(attrs.Severity),
			Derived: entities.Derived{
				Severity: string(attrs.Severity),
				Affected: attrs.Affected,
			},
		}
	}
	for id, attrs := range c.Edges {
		overlay.Edges[id] = entities.Presentation{
			Style: SecurityEdgeStyle(attrs.Affected, attrs.OnAttackPath),
			Derived: entities.Derived{
				Severity:     string(attrs.Severity),
				Affected:     attrs.Affected,
				OnAttackPath: attrs.OnAttackPath,
			},
		}
	}
	return overlay
}

// PowerflowStyle maps a node status to its style. Unknown statuses stay neutral.
func PowerflowStyle(status results.PowerflowStatus) entities.Style {
	var colors colorPair
	switch status {
	case results.StatusNormal:
		colors = colorPair{PowerflowNormalBackground, PowerflowNormalBorder}
	case results.StatusWarning:
		colors = colorPair{PowerflowWarningBackground, PowerflowWarningBorder}
	case results.StatusCritical:
		colors = colorPair{PowerflowCriticalBackground, PowerflowCriticalBorder}
	default:
		return entities.NeutralNodeStyle()
	}
	return entities.Style{
		Background:  colors.background,
		Border:      colors.border,
		BorderWidth: powerflowBorderWidth,
		Marker:      entities.MarkerNone,
	}
}

// EmissionStyle maps a signed emission to a red (emitting) or green (avoiding)
// gradient normalized against scale. Zero keeps the neutral style.
func EmissionStyle(e, scale float64) entities.Style {
	if e == 0 || math.IsNaN(e) {
		return entities.NeutralNodeStyle()
	}
	if scale < 1 {
		scale = 1
	}
	intensity := math.Min(math.Abs(e)/scale, 1)

	hot := clampChannel(math.Floor(200 + 55*intensity))
	cold := clampChannel(math.Floor(50 - 50*intensity))

	var bg, border [3]int
	if e > 0 {
		bg = [3]int{hot, cold, cold}
		border = [3]int{clampChannel(float64(hot + borderShift)), clampChannel(float64(cold - borderShift)), clampChannel(float64(cold - borderShift))}
	} else {
		bg = [3]int{cold, hot, cold}
		border = [3]int{clampChannel(float64(cold - borderShift)), clampChannel(float64(hot + borderShift)), clampChannel(float64(cold - borderShift))}
	}

	return entities.Style{
		Background:  rgb(bg),
		Border:      rgb(border),
		BorderWidth: emissionBorderWidth,
		Marker:      entities.MarkerNone,
	}
}

// SecurityNodeStyle maps the aggregated severity of a node to its style
func SecurityNodeStyle(severity results.Severity) entities.Style {
	colors, ok := severityColors[severity]
	if !ok {
		return entities.NeutralNodeStyle()
	}
	return entities.Style{
		Background:  colors.background,
		Border:      colors.border,
		BorderWidth: securityBorderWidth,
		Marker:      entities.MarkerNone,
	}
}

// SecurityEdgeStyle styles an edge touched by a penetration run.
// Attack-path status wins over affected-only status.
func SecurityEdgeStyle(affected, onPath bool) entities.Style {
	switch {
	case onPath:
		return entities.Style{
			Stroke:      AttackPathStroke,
			StrokeWidth: attackPathWidth,
			Marker:      entities.MarkerArrow,
			Animated:    true,
		}
	case affected:
		return entities.Style{
			Stroke:      AffectedStroke,
			StrokeWidth: affectedWidth,
			Marker:      entities.MarkerNone,
		}
	default:
		return entities.NeutralEdgeStyle()
	}
}

func clampChannel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func rgb(c [3]int) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c[0], c[1], c[2])
}

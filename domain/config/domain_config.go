package config

import (
	"errors"
	"time"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Topology constraints
	MaxNodesPerTopology  int
	MaxEdgesPerTopology  int
	DefaultTopologyName  string
	AllowSelfConnections bool

	// Quota defaults used when the identity service has not reported a quota
	DemoTopologyCeiling int
	UnboundedSentinel   int

	// Simulation defaults
	DefaultESGTimeHours         float64
	DefaultEVChargingHours      float64
	DefaultSolarGenerationHours float64
	DefaultBatteryCycles        float64

	// Scenario catalog
	ScenarioCacheTTL time.Duration
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNodesPerTopology:  10000,
		MaxEdgesPerTopology:  50000,
		DefaultTopologyName:  "Untitled feeder",
		AllowSelfConnections: false,

		DemoTopologyCeiling: 3,
		UnboundedSentinel:   999999,

		DefaultESGTimeHours:         24,
		DefaultEVChargingHours:      4,
		DefaultSolarGenerationHours: 6,
		DefaultBatteryCycles:        1,

		ScenarioCacheTTL: 10 * time.Minute,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxNodesPerTopology = 5000
	config.MaxEdgesPerTopology = 25000
	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxNodesPerTopology = 100000
	config.MaxEdgesPerTopology = 500000
	config.ScenarioCacheTTL = time.Minute
	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxNodesPerTopology <= 0 || c.MaxEdgesPerTopology <= 0 {
		return errors.New("topology limits must be positive")
	}
	if c.DemoTopologyCeiling < 0 {
		return errors.New("demo topology ceiling cannot be negative")
	}
	if c.UnboundedSentinel <= 0 {
		return errors.New("unbounded sentinel must be positive")
	}
	return nil
}

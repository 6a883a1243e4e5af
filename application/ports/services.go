package ports

import (
	"context"

	"feeder-workbench/domain/events"
	"feeder-workbench/domain/identity"
	"feeder-workbench/domain/results"
)

// TopologyStore persists topology documents.
// This is a port in hexagonal architecture; the workspace does not know the transport.
type TopologyStore interface {
	// Create persists a new topology and returns it with its server-assigned id
	Create(ctx context.Context, doc TopologyDocument) (*TopologyDocument, error)

	// Get retrieves a topology by id
	Get(ctx context.Context, id string) (*TopologyDocument, error)

	// Update replaces a topology keyed by id
	Update(ctx context.Context, id string, doc TopologyDocument) (*TopologyDocument, error)

	// List retrieves every topology the session may see, most recent first
	List(ctx context.Context) ([]TopologyDocument, error)

	// Delete removes a topology
	Delete(ctx context.Context, id string) error
}

// ProfileCatalog lists the feeder profile descriptions
type ProfileCatalog interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, profileType string) (*Profile, error)
}

// SimulationEngine runs the analysis backends
type SimulationEngine interface {
	RunPowerflow(ctx context.Context, topology SimulationTopology) (*results.PowerflowResult, error)
	RunReliability(ctx context.Context, topology SimulationTopology, params results.ReliabilityParameters) (*results.ReliabilityResult, error)
	RunESG(ctx context.Context, topology SimulationTopology, params results.ESGParameters) (*results.ESGResult, error)
	RunPenetration(ctx context.Context, topology SimulationTopology, scenarios, targets []string) (*results.PenetrationResult, error)
	ListScenarios(ctx context.Context) (*results.Catalog, error)
}

// LoginResult is the identity service's answer to a completed OAuth flow
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"`
	User      identity.User `json:"user"`
}

// AuthURL is where the operator must be sent to start an OAuth flow
type AuthURL struct {
	URL   string `json:"auth_url"`
	State string `json:"state"`
}

// IdentityService authenticates operators and reports their quota
type IdentityService interface {
	Me(ctx context.Context) (*identity.Profile, error)
	OAuthCallback(ctx context.Context, provider, code, state string) (*LoginResult, error)
	AuthURL(ctx context.Context, provider, state string) (*AuthURL, error)
	Refresh(ctx context.Context, token string) (*identity.Credentials, error)
}

// PaymentService starts premium upgrades and lists past payments
type PaymentService interface {
	CreateCheckout(ctx context.Context, tier, provider string) (*identity.Checkout, error)
	History(ctx context.Context) ([]identity.Payment, error)
}

// TokenStore keeps the bearer credential across restarts
type TokenStore interface {
	// Token returns the current token, empty for the anonymous session
	Token() string
	Save(token string) error
	Clear() error
	// Expired reports whether the token's own expiry claim has passed
	Expired(token string) bool
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

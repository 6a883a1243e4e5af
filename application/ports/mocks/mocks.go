// Package mocks provides testify mocks for the application ports
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/events"
	"feeder-workbench/domain/identity"
	"feeder-workbench/domain/results"
)

type MockTopologyStore struct {
	mock.Mock
}

func (m *MockTopologyStore) Create(ctx context.Context, doc ports.TopologyDocument) (*ports.TopologyDocument, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TopologyDocument), args.Error(1)
}

func (m *MockTopologyStore) Get(ctx context.Context, id string) (*ports.TopologyDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TopologyDocument), args.Error(1)
}

func (m *MockTopologyStore) Update(ctx context.Context, id string, doc ports.TopologyDocument) (*ports.TopologyDocument, error) {
	args := m.Called(ctx, id, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TopologyDocument), args.Error(1)
}

func (m *MockTopologyStore) List(ctx context.Context) ([]ports.TopologyDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.TopologyDocument), args.Error(1)
}

func (m *MockTopologyStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSimulationEngine struct {
	mock.Mock
}

func (m *MockSimulationEngine) RunPowerflow(ctx context.Context, topology ports.SimulationTopology) (*results.PowerflowResult, error) {
	args := m.Called(ctx, topology)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*results.PowerflowResult), args.Error(1)
}

func (m *MockSimulationEngine) RunReliability(ctx context.Context, topology ports.SimulationTopology, params results.ReliabilityParameters) (*results.ReliabilityResult, error) {
	args := m.Called(ctx, topology, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*results.ReliabilityResult), args.Error(1)
}

func (m *MockSimulationEngine) RunESG(ctx context.Context, topology ports.SimulationTopology, params results.ESGParameters) (*results.ESGResult, error) {
	args := m.Called(ctx, topology, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*results.ESGResult), args.Error(1)
}

func (m *MockSimulationEngine) RunPenetration(ctx context.Context, topology ports.SimulationTopology, scenarios, targets []string) (*results.PenetrationResult, error) {
	args := m.Called(ctx, topology, scenarios, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*results.PenetrationResult), args.Error(1)
}

func (m *MockSimulationEngine) ListScenarios(ctx context.Context) (*results.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*results.Catalog), args.Error(1)
}

type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Me(ctx context.Context) (*identity.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockIdentityService) OAuthCallback(ctx context.Context, provider, code, state string) (*ports.LoginResult, error) {
	args := m.Called(ctx, provider, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.LoginResult), args.Error(1)
}

func (m *MockIdentityService) AuthURL(ctx context.Context, provider, state string) (*ports.AuthURL, error) {
	args := m.Called(ctx, provider, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthURL), args.Error(1)
}

func (m *MockIdentityService) Refresh(ctx context.Context, token string) (*identity.Credentials, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Credentials), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateCheckout(ctx context.Context, tier, provider string) (*identity.Checkout, error) {
	args := m.Called(ctx, tier, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Checkout), args.Error(1)
}

func (m *MockPaymentService) History(ctx context.Context) ([]identity.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Payment), args.Error(1)
}

type MockProfileCatalog struct {
	mock.Mock
}

func (m *MockProfileCatalog) ListProfiles(ctx context.Context) ([]ports.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Profile), args.Error(1)
}

func (m *MockProfileCatalog) GetProfile(ctx context.Context, profileType string) (*ports.Profile, error) {
	args := m.Called(ctx, profileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Profile), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MemoryTokenStore is a TokenStore fake that keeps the token in memory.
// Tokens listed in ExpiredTokens report as expired.
type MemoryTokenStore struct {
	mu            sync.Mutex
	token         string
	ExpiredTokens map[string]bool
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token, ExpiredTokens: make(map[string]bool)}
}

func (s *MemoryTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryTokenStore) Expired(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ExpiredTokens[token]
}

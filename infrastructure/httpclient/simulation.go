package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
)

const simulationService = "simulation-engine"

// BreakerSettings configures the circuit breaker in front of the simulation engine
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// SimulationClient implements ports.SimulationEngine.
// Every call goes through a circuit breaker so a dead engine fails fast.
type SimulationClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

var _ ports.SimulationEngine = (*SimulationClient)(nil)

// NewSimulationClient wraps client in a circuit breaker
func NewSimulationClient(client *Client, settings BreakerSettings, logger *zap.Logger) *SimulationClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        simulationService,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Rejections of the request itself say nothing about the engine's health
		IsSuccessful: func(err error) bool {
			return err == nil || !pkgerrors.IsNetworkFailure(err)
		},
	})

	return &SimulationClient{client: client, breaker: breaker, now: time.Now}
}

// State reports the breaker state
func (s *SimulationClient) State() string {
	return s.breaker.State().String()
}

// Ready fails while the breaker is open
func (s *SimulationClient) Ready() error {
	if s.breaker.State() == gobreaker.StateOpen {
		return pkgerrors.NewNetworkFailure(simulationService, gobreaker.ErrOpenState).WithCode("CIRCUIT_OPEN")
	}
	return nil
}

type simulationRequest struct {
	Topology   ports.SimulationTopology `json:"topology"`
	Parameters interface{}              `json:"parameters,omitempty"`
}

type penetrationRequest struct {
	Topology        ports.SimulationTopology `json:"topology"`
	AttackScenarios []string                 `json:"attack_scenarios"`
	TargetNodes     []string                 `json:"target_nodes,omitempty"`
}

// RunPowerflow runs a load-flow analysis
func (s *SimulationClient) RunPowerflow(ctx context.Context, topology ports.SimulationTopology) (*results.PowerflowResult, error) {
	var out results.PowerflowResult
	if err := s.post(ctx, "powerflow", "/simulate/powerflow", simulationRequest{Topology: topology}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunReliability computes reliability indices
func (s *SimulationClient) RunReliability(ctx context.Context, topology ports.SimulationTopology, params results.ReliabilityParameters) (*results.ReliabilityResult, error) {
	req := simulationRequest{Topology: topology}
	if params.FaultRate != nil || params.RepairTime != nil {
		req.Parameters = params
	}
	var out results.ReliabilityResult
	if err := s.post(ctx, "reliability", "/simulate/reliability", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunESG computes per-node emissions
func (s *SimulationClient) RunESG(ctx context.Context, topology ports.SimulationTopology, params results.ESGParameters) (*results.ESGResult, error) {
	var out results.ESGResult
	if err := s.post(ctx, "esg", "/simulate/esg", simulationRequest{Topology: topology, Parameters: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunPenetration runs the chosen attack scenarios
func (s *SimulationClient) RunPenetration(ctx context.Context, topology ports.SimulationTopology, scenarios, targets []string) (*results.PenetrationResult, error) {
	req := penetrationRequest{
		Topology:        topology,
		AttackScenarios: scenarios,
		TargetNodes:     targets,
	}
	var out results.PenetrationResult
	if err := s.post(ctx, "penetration", "/simulate/penetration", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListScenarios fetches the penetration scenario catalog
func (s *SimulationClient) ListScenarios(ctx context.Context) (*results.Catalog, error) {
	var out struct {
		Scenarios []results.Scenario `json:"scenarios"`
	}
	err := s.execute(func() error {
		return s.client.do(ctx, call{
			operation: "list_scenarios",
			method:    http.MethodGet,
			path:      "/simulate/penetration/scenarios",
			out:       &out,
			auth:      true,
		})
	})
	if err != nil {
		return nil, err
	}
	return &results.Catalog{Scenarios: out.Scenarios, FetchedAt: s.now().UTC()}, nil
}

func (s *SimulationClient) post(ctx context.Context, operation, path string, body, out interface{}) error {
	return s.execute(func() error {
		return s.client.do(ctx, call{
			operation: operation,
			method:    http.MethodPost,
			path:      path,
			body:      body,
			out:       out,
			auth:      true,
		})
	})
}

func (s *SimulationClient) execute(fn func() error) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewNetworkFailure(simulationService, err).WithCode("CIRCUIT_OPEN")
	}
	return err
}

package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeder-workbench/application/ports"
	"feeder-workbench/application/ports/mocks"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/observability"
	"feeder-workbench/pkg/testutil"
)

var writeJSON = testutil.WriteJSON

type fixture struct {
	backend *testutil.Backend
	tokens  *mocks.MemoryTokenStore
	metrics *observability.Collector
}

// newFixture starts a fake backend and mounts routes on it
func newFixture(t *testing.T, routes chi.Router) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.Router.Mount("/", routes)
	return &fixture{
		backend: backend,
		tokens:  mocks.NewMemoryTokenStore("tok-1"),
		metrics: observability.NewCollector("httpclient_test"),
	}
}

func (f *fixture) client(service string) *Client {
	return NewClient(Options{
		Service: service,
		BaseURL: f.backend.URL() + "/",
		Timeout: 2 * time.Second,
		Tokens:  f.tokens,
		Metrics: f.metrics,
	})
}

func TestTopologyStore_CreateSendsBearerAndRequestID(t *testing.T) {
	var got struct {
		auth      string
		requestID string
		body      map[string]interface{}
	}
	r := chi.NewRouter()
	r.Post("/topologies", func(w http.ResponseWriter, req *http.Request) {
		got.auth = req.Header.Get("Authorization")
		got.requestID = req.Header.Get("X-Request-ID")
		_ = json.NewDecoder(req.Body).Decode(&got.body)
		writeJSON(w, http.StatusCreated, ports.TopologyDocument{ID: "topo-9", Name: "Feeder A", ProfileType: "urban"})
	})
	f := newFixture(t, r)
	store := NewTopologyStoreClient(f.client("topology-store"))

	doc, err := store.Create(context.Background(), ports.TopologyDocument{ID: "ignored", Name: "Feeder A", ProfileType: "urban"})
	require.NoError(t, err)
	assert.Equal(t, "topo-9", doc.ID)
	assert.Equal(t, "Bearer tok-1", got.auth)
	assert.NotEmpty(t, got.requestID)
	assert.NotContains(t, got.body, "id")
	assert.Equal(t, []interface{}{}, got.body["nodes"])
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.BackendCalls.WithLabelValues("topology-store", "create_topology", "201")))
}

func TestTopologyStore_StatusMapping(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/topologies/{id}", func(w http.ResponseWriter, req *http.Request) {
		switch chi.URLParam(req, "id") {
		case "gone":
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Topology not found"})
		case "bad":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": "invalid id"})
		case "auth":
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		case "quota":
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Topology limit reached"})
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})
	f := newFixture(t, r)
	store := NewTopologyStoreClient(f.client("topology-store"))
	ctx := context.Background()

	_, err := store.Get(ctx, "gone")
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = store.Get(ctx, "bad")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "invalid id")

	_, err = store.Get(ctx, "auth")
	assert.True(t, pkgerrors.IsSessionExpired(err))

	_, err = store.Get(ctx, "quota")
	assert.True(t, pkgerrors.IsPermissionDenied(err))
	assert.Contains(t, err.Error(), "Topology limit reached")

	_, err = store.Get(ctx, "other")
	assert.True(t, pkgerrors.IsNetworkFailure(err))
}

func TestClient_ExpiredTokenNeverLeavesTheProcess(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", testutil.Respond(http.StatusOK, map[string]interface{}{}))
	f := newFixture(t, r)
	f.tokens.ExpiredTokens["tok-1"] = true

	_, err := NewIdentityClient(f.client("identity")).Me(context.Background())
	assert.True(t, pkgerrors.IsSessionExpired(err))
	assert.Zero(t, f.backend.Hits("/auth/me"))
}

func TestClient_UnreachableBackendIsNetworkFailure(t *testing.T) {
	client := NewClient(Options{Service: "topology-store", BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := NewTopologyStoreClient(client).List(context.Background())
	assert.True(t, pkgerrors.IsNetworkFailure(err))
}

func TestClient_MalformedBodyIsNetworkFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/profiles", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not json"))
	})
	f := newFixture(t, r)
	_, err := NewTopologyStoreClient(f.client("topology-store")).ListProfiles(context.Background())
	assert.True(t, pkgerrors.IsNetworkFailure(err))
}

func TestIdentity_MeRequiresToken(t *testing.T) {
	f := newFixture(t, chi.NewRouter())
	require.NoError(t, f.tokens.Clear())

	_, err := NewIdentityClient(f.client("identity")).Me(context.Background())
	assert.True(t, pkgerrors.IsSessionExpired(err))
}

func TestIdentity_LoginAndRefresh(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/oauth/callback", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)
		assert.Equal(t, "github", body["provider"])
		assert.Empty(t, req.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token":      "fresh",
			"expires_in": 3600,
			"user":       map[string]interface{}{"id": "u-1", "email": "ops@example.com", "subscription_tier": "free"},
		})
	})
	r.Post("/auth/refresh", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"token": "renewed", "expires_in": 3600})
	})
	f := newFixture(t, r)
	idp := NewIdentityClient(f.client("identity"))

	login, err := idp.OAuthCallback(context.Background(), "github", "code", "state")
	require.NoError(t, err)
	assert.Equal(t, "fresh", login.Token)
	assert.Equal(t, "u-1", login.User.ID)

	creds, err := idp.Refresh(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "renewed", creds.Token)
}

func TestPayments_HistoryUnwrapsEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/payments/history", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"payments": []map[string]interface{}{{"id": "p-1", "amount": 9.99, "currency": "USD", "payment_provider": "stripe"}},
		})
	})
	f := newFixture(t, r)

	payments, err := NewPaymentClient(f.client("payments")).History(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "stripe", payments[0].PaymentProvider)
}

func TestSimulation_PenetrationRequestShape(t *testing.T) {
	var body map[string]interface{}
	r := chi.NewRouter()
	r.Post("/simulate/penetration", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, http.StatusOK, results.PenetrationResult{Summary: results.PenetrationSummary{TotalAttacks: 1}})
	})
	f := newFixture(t, r)
	sim := NewSimulationClient(f.client(simulationService), BreakerSettings{}, nil)

	topo := ports.SimulationTopology{Nodes: []ports.NodeDocument{{ID: "n1", Type: "bus"}}, Lines: []ports.LineDocument{}}
	out, err := sim.RunPenetration(context.Background(), topo, []string{"L3-01"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.TotalAttacks)
	assert.Equal(t, []interface{}{"L3-01"}, body["attack_scenarios"])
	assert.NotContains(t, body, "target_nodes")
	assert.Contains(t, body, "topology")
}

func TestSimulation_ScenarioCatalogIsStamped(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/simulate/penetration/scenarios", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"scenarios": []map[string]interface{}{{"id": "L1-01", "name": "Cable cut", "layer": 1, "severity": "high"}},
		})
	})
	f := newFixture(t, r)
	sim := NewSimulationClient(f.client(simulationService), BreakerSettings{}, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sim.now = func() time.Time { return fixed }

	catalog, err := sim.ListScenarios(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Scenarios, 1)
	assert.Equal(t, results.SeverityHigh, catalog.Scenarios[0].Severity)
	assert.Equal(t, fixed, catalog.FetchedAt)
}

func TestSimulation_BreakerOpensOnRepeatedFailures(t *testing.T) {
	var hits int32
	r := chi.NewRouter()
	r.Post("/simulate/powerflow", func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "engine down", http.StatusServiceUnavailable)
	})
	f := newFixture(t, r)
	sim := NewSimulationClient(f.client(simulationService), BreakerSettings{
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, nil)
	topo := ports.SimulationTopology{}

	for i := 0; i < 2; i++ {
		_, err := sim.RunPowerflow(context.Background(), topo)
		assert.True(t, pkgerrors.IsNetworkFailure(err))
	}
	assert.Equal(t, "open", sim.State())
	assert.Error(t, sim.Ready())

	_, err := sim.RunPowerflow(context.Background(), topo)
	require.True(t, pkgerrors.IsNetworkFailure(err))
	assert.Equal(t, "CIRCUIT_OPEN", pkgerrors.GetAppError(err).Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSimulation_ClientErrorsDoNotTripBreaker(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/simulate/reliability", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "topology has no nodes"})
	})
	f := newFixture(t, r)
	sim := NewSimulationClient(f.client(simulationService), BreakerSettings{FailureThreshold: 1, Timeout: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		_, err := sim.RunReliability(context.Background(), ports.SimulationTopology{}, results.ReliabilityParameters{})
		assert.True(t, pkgerrors.IsValidation(err))
	}
	assert.Equal(t, "closed", sim.State())
}

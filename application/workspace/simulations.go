package workspace

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/permissions"
	"feeder-workbench/domain/results"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/utils"
)

// ticket identifies one issued simulation
type ticket struct {
	op         Operation
	kind       results.Kind
	seq        uint64
	generation uint64
}

// RunPowerflow runs a power-flow study and overlays node status
func (w *Workspace) RunPowerflow(ctx context.Context) (*SimulationOutcome, error) {
	t, topo, err := w.issue(OpPowerflow, results.KindPowerflow)
	if err != nil {
		return nil, err
	}
	defer w.end(OpPowerflow)

	res, err := w.engine.RunPowerflow(ctx, topo)
	if err != nil {
		return nil, w.handleBackendError(OpPowerflow, err)
	}
	return w.complete(ctx, t, *res, func(r *Reports) {
		summary := res.Summary
		r.Powerflow = &summary
	})
}

// RunESG runs an emissions study and overlays per-node emission intensity.
// Zero parameters take the configured defaults.
func (w *Workspace) RunESG(ctx context.Context, params results.ESGParameters) (*SimulationOutcome, error) {
	if err := w.gate.RequireFeature(permissions.FeatureAdvancedSecurity, w.session); err != nil {
		return nil, w.denied("feature", err)
	}
	params = w.esgDefaults(params)
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	t, topo, err := w.issue(OpESG, results.KindEmission)
	if err != nil {
		return nil, err
	}
	defer w.end(OpESG)

	res, err := w.engine.RunESG(ctx, topo, params)
	if err != nil {
		return nil, w.handleBackendError(OpESG, err)
	}
	return w.complete(ctx, t, *res, func(r *Reports) {
		report := *res
		r.ESG = &report
	})
}

// RunPenetration runs the selected attack scenarios and overlays severity and attack paths
func (w *Workspace) RunPenetration(ctx context.Context, scenarios, targets []string) (*SimulationOutcome, error) {
	if len(scenarios) == 0 {
		return nil, pkgerrors.NewValidationError("select at least one attack scenario")
	}

	t, topo, err := w.issue(OpPenetration, results.KindAttack)
	if err != nil {
		return nil, err
	}
	defer w.end(OpPenetration)

	res, err := w.engine.RunPenetration(ctx, topo, scenarios, targets)
	if err != nil {
		return nil, w.handleBackendError(OpPenetration, err)
	}
	return w.complete(ctx, t, *res, func(r *Reports) {
		report := *res
		r.Penetration = &report
	})
}

// RunReliability runs a reliability study. The result is a report only and
// never changes the overlay, so it does not take part in sequencing.
func (w *Workspace) RunReliability(ctx context.Context, params results.ReliabilityParameters) (*results.ReliabilityResult, error) {
	w.mu.Lock()
	if err := w.checkRunnableLocked(OpReliability); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.inFlight[OpReliability] = true
	generation := w.generation
	topo := w.adapter.ToSimulationTopology(w.topology.SnapshotForPersistence())
	w.mu.Unlock()
	defer w.end(OpReliability)

	w.noteIssued()
	res, err := w.engine.RunReliability(ctx, topo, params)
	if err != nil {
		return nil, w.handleBackendError(OpReliability, err)
	}
	if err := w.adapter.ValidateResult(*res); err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.generation == generation {
		report := *res
		w.reports.Reliability = &report
	}
	w.mu.Unlock()

	w.refreshQuota(ctx)
	return res, nil
}

// Scenarios returns the penetration scenario catalog grouped by layer, 7 down to 1
func (w *Workspace) Scenarios(ctx context.Context) ([]results.LayerGroup, error) {
	catalog, err := w.engine.ListScenarios(ctx)
	if err != nil {
		return nil, w.handleBackendError(OpPenetration, err)
	}
	if err := w.adapter.ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog.GroupByLayer(), nil
}

// issue checks every precondition of an overlay simulation, bumps the sequence
// and returns the request topology. Nothing reaches the network on failure.
func (w *Workspace) issue(op Operation, kind results.Kind) (ticket, ports.SimulationTopology, error) {
	w.mu.Lock()
	if err := w.checkRunnableLocked(op); err != nil {
		w.mu.Unlock()
		return ticket{}, ports.SimulationTopology{}, err
	}
	w.inFlight[op] = true
	w.simSeq++
	t := ticket{op: op, kind: kind, seq: w.simSeq, generation: w.generation}
	topo := w.adapter.ToSimulationTopology(w.topology.SnapshotForPersistence())
	w.mu.Unlock()

	w.noteIssued()
	w.logger.Debug("Simulation issued",
		zap.String("workspace_id", w.id),
		zap.String("kind", string(kind)),
		zap.Uint64("sequence", t.seq),
	)
	return t, topo, nil
}

func (w *Workspace) checkRunnableLocked(op Operation) error {
	if w.inFlight[op] {
		return pkgerrors.NewOperationInFlight(string(op))
	}
	if w.topology.NodeCount() == 0 {
		return pkgerrors.NewValidationError("create nodes before running a simulation").
			WithCode("EMPTY_TOPOLOGY")
	}
	if err := w.gate.RequireSimulation(w.session); err != nil {
		return w.denied("simulation", err)
	}
	return nil
}

func (w *Workspace) noteIssued() {
	if w.session != nil {
		w.session.NoteSimulationIssued()
	}
}

// complete applies a result set if its ticket is still current.
// The quota is refreshed either way since the backend counted the run.
func (w *Workspace) complete(ctx context.Context, t ticket, set results.Set, report func(*Reports)) (*SimulationOutcome, error) {
	defer w.refreshQuota(ctx)

	if err := w.adapter.ValidateResult(set); err != nil {
		w.logger.Warn("Rejected simulation result",
			zap.String("kind", string(t.kind)),
			zap.Error(err),
		)
		return nil, err
	}

	w.mu.Lock()
	outcome, unmatched, err := w.applyLocked(t, set, report)
	evts := w.drainEventsLocked()
	w.mu.Unlock()
	w.publish(ctx, evts)
	if err != nil {
		return nil, err
	}

	if outcome.Stale {
		w.metrics.StaleResponses.WithLabelValues(string(t.kind)).Inc()
		w.logger.Info("Discarded stale simulation response",
			zap.String("kind", string(t.kind)),
			zap.Uint64("sequence", t.seq),
		)
		return outcome, nil
	}

	w.metrics.OverlaysApplied.WithLabelValues(string(outcome.Overlay.Kind)).Inc()
	if unmatched > 0 {
		w.logger.Info("Result set referenced unknown entities",
			zap.String("kind", string(t.kind)),
			zap.Int("unmatched", unmatched),
		)
	}
	return outcome, nil
}

func (w *Workspace) applyLocked(t ticket, set results.Set, report func(*Reports)) (*SimulationOutcome, int, error) {
	outcome := &SimulationOutcome{Kind: t.kind, Sequence: t.seq}
	if t.seq != w.simSeq || t.generation != w.generation {
		outcome.Stale = true
		return outcome, 0, nil
	}

	correlation, err := w.correlator.Correlate(w.topology.SnapshotForPersistence(), set)
	if err != nil {
		return nil, 0, err
	}
	overlay := w.policy.Encode(correlation)
	applied := w.topology.ApplyVisualOverlay(overlay)

	w.overlay = &OverlaySummary{
		Kind:        overlay.Kind,
		Sequence:    t.seq,
		StyledNodes: applied.StyledNodes,
		StyledEdges: applied.StyledEdges,
		Unmatched:   correlation.Unmatched,
		AppliedAt:   time.Now(),
	}
	report(&w.reports)
	outcome.Overlay = w.overlay
	return outcome, correlation.Unmatched, nil
}

func (w *Workspace) esgDefaults(p results.ESGParameters) results.ESGParameters {
	if p.TimeHours == 0 {
		p.TimeHours = w.rules.DefaultESGTimeHours
	}
	if p.EVChargingHours == 0 {
		p.EVChargingHours = w.rules.DefaultEVChargingHours
	}
	if p.SolarGenerationHours == 0 {
		p.SolarGenerationHours = w.rules.DefaultSolarGenerationHours
	}
	if p.BatteryCycles == 0 {
		p.BatteryCycles = w.rules.DefaultBatteryCycles
	}
	return p
}

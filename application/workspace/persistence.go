package workspace

import (
	"context"

	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/core/aggregates"
	"feeder-workbench/domain/core/valueobjects"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Save persists the open topology. The first save of a draft creates it and
// consumes a topology slot; later saves update it by id.
func (w *Workspace) Save(ctx context.Context) (*SaveOutcome, error) {
	w.mu.Lock()
	if err := w.beginLocked(OpSave); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	topo := w.topology
	generation := w.generation
	persisted := topo.IsPersisted()
	snap := topo.SnapshotForPersistence()
	doc := w.adapter.ToDocument(snap)
	w.mu.Unlock()
	defer w.end(OpSave)

	if !persisted {
		if err := w.gate.RequireTopologySlot(w.session); err != nil {
			return nil, w.denied("create_topology", err)
		}
	}

	var (
		saved *ports.TopologyDocument
		err   error
	)
	if persisted {
		saved, err = w.store.Update(ctx, doc.ID, doc)
	} else {
		saved, err = w.store.Create(ctx, doc)
	}
	if err != nil {
		return nil, w.handleBackendError(OpSave, err)
	}
	if saved == nil || saved.ID == "" {
		return nil, pkgerrors.NewNetworkFailure("topology store",
			pkgerrors.NewValidationError("saved topology has no id"))
	}

	outcome := &SaveOutcome{TopologyID: saved.ID, Created: !persisted}

	w.mu.Lock()
	if w.generation == generation && w.topology == topo {
		if err := topo.MarkPersisted(valueobjects.TopologyID(saved.ID), saved.CreatedAt, saved.UpdatedAt); err != nil {
			w.mu.Unlock()
			return nil, err
		}
		w.baseline = captureBaseline(snap, w.logger)
		outcome.Applied = true
	}
	evts := w.drainEventsLocked()
	w.mu.Unlock()

	w.publish(ctx, evts)
	if outcome.Created {
		w.refreshQuota(ctx)
	}

	w.logger.Info("Topology saved",
		zap.String("workspace_id", w.id),
		zap.String("topology_id", saved.ID),
		zap.Bool("created", outcome.Created),
		zap.Bool("applied", outcome.Applied),
	)
	return outcome, nil
}

// Load replaces the open topology with a persisted one.
// An empty id opens the first topology the store lists.
func (w *Workspace) Load(ctx context.Context, id string) (CanvasView, error) {
	w.mu.Lock()
	if err := w.beginLocked(OpLoad); err != nil {
		w.mu.Unlock()
		return CanvasView{}, err
	}
	w.mu.Unlock()
	defer w.end(OpLoad)

	doc, err := w.fetch(ctx, id)
	if err != nil {
		return CanvasView{}, err
	}

	topo, err := w.adapter.ToTopology(*doc)
	if err != nil {
		w.logger.Warn("Rejected persisted topology",
			zap.String("topology_id", doc.ID),
			zap.Error(err),
		)
		return CanvasView{}, err
	}

	w.mu.Lock()
	w.replaceTopology(topo, true)
	view := w.canvasLocked()
	w.mu.Unlock()

	w.metrics.GraphMutations.WithLabelValues("load").Inc()
	w.logger.Info("Topology loaded",
		zap.String("workspace_id", w.id),
		zap.String("topology_id", doc.ID),
		zap.Int("nodes", len(view.Nodes)),
		zap.Int("edges", len(view.Edges)),
	)
	return view, nil
}

func (w *Workspace) fetch(ctx context.Context, id string) (*ports.TopologyDocument, error) {
	if id != "" {
		doc, err := w.store.Get(ctx, id)
		if err != nil {
			return nil, w.handleBackendError(OpLoad, err)
		}
		return doc, nil
	}

	docs, err := w.store.List(ctx)
	if err != nil {
		return nil, w.handleBackendError(OpLoad, err)
	}
	first, err := w.adapter.First(docs)
	if err != nil {
		return nil, err
	}
	return &first, nil
}

// List returns the topologies the session may open
func (w *Workspace) List(ctx context.Context) ([]ports.TopologyDocument, error) {
	docs, err := w.store.List(ctx)
	if err != nil {
		return nil, w.handleBackendError(OpLoad, err)
	}
	return docs, nil
}

// Delete removes a persisted topology. Deleting the open topology turns it
// back into an unsaved draft with the same content.
func (w *Workspace) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.NewValidationError("topology id is required")
	}

	w.mu.Lock()
	if err := w.beginLocked(OpDelete); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	defer w.end(OpDelete)

	if err := w.store.Delete(ctx, id); err != nil {
		return w.handleBackendError(OpDelete, err)
	}

	w.mu.Lock()
	if w.topology.ID().String() == id {
		w.replaceTopology(w.detachedDraftLocked(), false)
	}
	w.mu.Unlock()

	w.refreshQuota(ctx)
	w.logger.Info("Topology deleted", zap.String("topology_id", id))
	return nil
}

// detachedDraftLocked copies the open topology's content into a draft with
// no id. A draft that cannot take the content starts empty so that the
// deleted id never survives on the canvas.
func (w *Workspace) detachedDraftLocked() *aggregates.Topology {
	current := w.topology
	draft, err := aggregates.NewTopologyWithRules(current.Name(), current.ProfileType(), w.rules)
	if err == nil {
		draft.SetDescription(current.Description())
		err = draft.ReplaceAll(current.Nodes(), current.Edges())
	}
	if err == nil {
		draft.ClearOverlay()
		draft.MarkEventsAsCommitted()
		return draft
	}

	w.logger.Error("Deleted topology could not be kept as a draft",
		zap.String("topology_id", current.ID().String()),
		zap.Error(err),
	)
	// New already built a draft from these defaults
	empty, _ := aggregates.NewTopologyWithRules(w.rules.DefaultTopologyName, valueobjects.DefaultProfile, w.rules)
	return empty
}

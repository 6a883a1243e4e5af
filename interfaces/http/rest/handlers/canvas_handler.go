package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"feeder-workbench/application/commands"
	"feeder-workbench/application/queries"
)

// CanvasHandler edits the open topology
type CanvasHandler struct {
	Dispatcher
}

// NewCanvasHandler creates a canvas handler
func NewCanvasHandler(d Dispatcher) *CanvasHandler {
	return &CanvasHandler{Dispatcher: d}
}

// GetCanvas handles GET /canvas
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetCanvasQuery{})
}

// GetReports handles GET /canvas/reports
func (h *CanvasHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetReportsQuery{})
}

// GetChanges handles GET /canvas/changes
func (h *CanvasHandler) GetChanges(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetChangesQuery{})
}

// UpdateTopology handles PATCH /canvas
func (h *CanvasHandler) UpdateTopology(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateTopologyCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// NewDraft handles POST /canvas/draft
func (h *CanvasHandler) NewDraft(w http.ResponseWriter, r *http.Request) {
	var cmd commands.NewDraftCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// ClearOverlay handles DELETE /canvas/overlay
func (h *CanvasHandler) ClearOverlay(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ClearOverlayCommand{}, http.StatusOK)
}

// AddNode handles POST /canvas/nodes
func (h *CanvasHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddNodeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

type positionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MoveNode handles PUT /canvas/nodes/{nodeID}/position
func (h *CanvasHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.MoveNodeCommand{
		NodeID: chi.URLParam(r, "nodeID"),
		X:      req.X,
		Y:      req.Y,
	}, http.StatusOK)
}

type nameRequest struct {
	Name string `json:"name"`
}

// RenameNode handles PUT /canvas/nodes/{nodeID}/name
func (h *CanvasHandler) RenameNode(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.RenameNodeCommand{
		NodeID: chi.URLParam(r, "nodeID"),
		Name:   req.Name,
	}, http.StatusOK)
}

type propertiesRequest struct {
	Properties map[string]interface{} `json:"properties"`
}

// UpdateNodeProperties handles PUT /canvas/nodes/{nodeID}/properties
func (h *CanvasHandler) UpdateNodeProperties(w http.ResponseWriter, r *http.Request) {
	var req propertiesRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.UpdateNodePropertiesCommand{
		NodeID:     chi.URLParam(r, "nodeID"),
		Properties: req.Properties,
	}, http.StatusOK)
}

// RemoveNode handles DELETE /canvas/nodes/{nodeID}
func (h *CanvasHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveNodeCommand{NodeID: chi.URLParam(r, "nodeID")}, http.StatusOK)
}

// ConnectEdge handles POST /canvas/edges
func (h *CanvasHandler) ConnectEdge(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ConnectEdgeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// RemoveEdge handles DELETE /canvas/edges/{edgeID}
func (h *CanvasHandler) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveEdgeCommand{EdgeID: chi.URLParam(r, "edgeID")}, http.StatusOK)
}

package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"feeder-workbench/application/commands"
	"feeder-workbench/application/queries"
	"feeder-workbench/application/workspace"
	"feeder-workbench/pkg/common"
	pkgerrors "feeder-workbench/pkg/errors"
)

// TopologyHandler saves, loads, lists and deletes persisted topologies
type TopologyHandler struct {
	Dispatcher
}

// NewTopologyHandler creates a topology handler
func NewTopologyHandler(d Dispatcher) *TopologyHandler {
	return &TopologyHandler{Dispatcher: d}
}

// Save handles POST /canvas/save. A first save answers 201.
func (h *TopologyHandler) Save(w http.ResponseWriter, r *http.Request) {
	result, err := h.Commands.Send(r.Context(), commands.SaveTopologyCommand{})
	if err != nil {
		h.Errors.Handle(w, r, err)
		return
	}
	status := http.StatusOK
	if outcome, ok := result.(*workspace.SaveOutcome); ok && outcome.Created {
		status = http.StatusCreated
	}
	common.RespondJSON(w, r, status, result)
}

// Load handles POST /canvas/load; without a topology_id the first stored topology opens
func (h *TopologyHandler) Load(w http.ResponseWriter, r *http.Request) {
	var cmd commands.LoadTopologyCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// List handles GET /topologies?page=&page_size=&sort=name|updated_at&order=
func (h *TopologyHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.askValue(r.Context(), queries.ListTopologiesQuery{})
	if err != nil {
		h.Errors.Handle(w, r, err)
		return
	}
	rows, ok := result.([]queries.TopologySummaryDTO)
	if !ok {
		h.Errors.Handle(w, r, pkgerrors.NewInternalError("unexpected topology list"))
		return
	}

	params := common.ExtractPaginationParams(r)
	sortSummaries(rows, params.Sort, params.Order)

	start, end := params.Window(len(rows))
	common.RespondWithMeta(w, r, http.StatusOK, rows[start:end], &common.MetaInfo{
		Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, len(rows)),
	})
}

// Delete handles DELETE /topologies/{topologyID}
func (h *TopologyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteTopologyCommand{TopologyID: chi.URLParam(r, "topologyID")}, http.StatusOK)
}

// sortSummaries orders rows in place; the store's own order is kept when no key is given
func sortSummaries(rows []queries.TopologySummaryDTO, key, order string) {
	var less func(a, b queries.TopologySummaryDTO) bool
	switch key {
	case "name":
		less = func(a, b queries.TopologySummaryDTO) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "updated_at":
		less = func(a, b queries.TopologySummaryDTO) bool {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if order == "desc" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

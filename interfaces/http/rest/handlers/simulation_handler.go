package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"feeder-workbench/application/commands"
	"feeder-workbench/application/queries"
)

// SimulationHandler runs analyses and serves the catalogs they draw on
type SimulationHandler struct {
	Dispatcher
}

// NewSimulationHandler creates a simulation handler
func NewSimulationHandler(d Dispatcher) *SimulationHandler {
	return &SimulationHandler{Dispatcher: d}
}

// RunPowerflow handles POST /simulations/powerflow
func (h *SimulationHandler) RunPowerflow(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RunPowerflowCommand{}, http.StatusOK)
}

// RunESG handles POST /simulations/esg; the body is optional
func (h *SimulationHandler) RunESG(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RunESGCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// RunPenetration handles POST /simulations/penetration
func (h *SimulationHandler) RunPenetration(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RunPenetrationCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// RunReliability handles POST /simulations/reliability
func (h *SimulationHandler) RunReliability(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RunReliabilityCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// ListScenarios handles GET /scenarios
func (h *SimulationHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListScenariosQuery{})
}

// ListProfiles handles GET /profiles
func (h *SimulationHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListProfilesQuery{})
}

// GetProfile handles GET /profiles/{profileType}
func (h *SimulationHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetProfileQuery{ProfileType: chi.URLParam(r, "profileType")})
}

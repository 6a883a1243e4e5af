// Package handlers turns REST requests into commands and queries
package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"feeder-workbench/application/commands/bus"
	querybus "feeder-workbench/application/queries/bus"
	"feeder-workbench/pkg/common"
	pkgerrors "feeder-workbench/pkg/errors"
)

// Dispatcher is what every handler needs to reach the application layer
type Dispatcher struct {
	Commands *bus.CommandBus
	Queries  *querybus.QueryBus
	Errors   *pkgerrors.ErrorHandler
	Logger   *zap.Logger
}

// decode reads the JSON body into v and answers 400 on failure
func (d Dispatcher) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, common.DefaultMaxBodyBytes); err != nil {
		d.Errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// send dispatches a command and writes its result with status
func (d Dispatcher) send(w http.ResponseWriter, r *http.Request, cmd bus.Command, status int) {
	result, err := d.Commands.Send(r.Context(), cmd)
	if err != nil {
		d.Errors.Handle(w, r, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	common.RespondJSON(w, r, status, result)
}

// ask dispatches a query and writes its result
func (d Dispatcher) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	result, err := d.askValue(r.Context(), q)
	if err != nil {
		d.Errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, result)
}

func (d Dispatcher) askValue(ctx context.Context, q querybus.Query) (interface{}, error) {
	return d.Queries.Ask(ctx, q)
}

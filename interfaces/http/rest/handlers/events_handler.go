package handlers

import (
	"net/http"
	"strconv"

	"feeder-workbench/infrastructure/events"
	"feeder-workbench/pkg/common"
	pkgerrors "feeder-workbench/pkg/errors"
)

// EventFeed exposes recently published domain events
type EventFeed interface {
	Recent(limit int, after uint64) []events.Record
	Last() uint64
}

// EventsHandler serves the activity feed
type EventsHandler struct {
	feed   EventFeed
	errors *pkgerrors.ErrorHandler
}

// NewEventsHandler creates an events handler
func NewEventsHandler(feed EventFeed, errors *pkgerrors.ErrorHandler) *EventsHandler {
	return &EventsHandler{feed: feed, errors: errors}
}

type eventsResponse struct {
	Last   uint64          `json:"last"`
	Events []events.Record `json:"events"`
}

// List handles GET /events?limit=&after=
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > common.MaxPageSize {
		limit = common.MaxPageSize
	}

	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("after must be a sequence number"))
			return
		}
		after = n
	}

	common.RespondJSON(w, r, http.StatusOK, eventsResponse{
		Last:   h.feed.Last(),
		Events: h.feed.Recent(limit, after),
	})
}

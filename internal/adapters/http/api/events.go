package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carebridge/carebridge/internal/adapters/repository"
	"github.com/carebridge/carebridge/internal/adapters/source"
	"github.com/carebridge/carebridge/internal/domain/model"
)

// EventsHandler handles calendar event requests.
type EventsHandler struct {
	deps         Dependencies
	defaultColor string
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies, defaultColor string) *EventsHandler {
	return &EventsHandler{deps: deps, defaultColor: defaultColor}
}

// HandleEvents handles POST /events and GET /events?date=YYYY-MM-DD requests.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Color == "" {
		req.Color = h.defaultColor
	}
	ev, err := req.toEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	created, err := h.deps.AddEvent(r.Context(), ev)
	switch {
	case err == nil:
		resp := toEventResponse(created)
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Event: &resp})
	case errors.Is(err, repository.ErrDuplicateID):
		// The first write won; acknowledge without changing anything.
		resp := toEventResponse(created)
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, Event: &resp})
	case errors.Is(err, source.ErrUnavailable) || errors.Is(err, source.ErrRejected):
		writeError(w, http.StatusBadGateway, "upstream_error", WrapKind(op, ErrUpstream, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"

	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeJSON(w, http.StatusOK, toEventResponses(h.deps.Events(r.Context())))
		return
	}

	day, err := model.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(h.deps.EventsOn(r.Context(), day)))
}

// HandleEventByID handles DELETE /events/{id} requests.
func (h *EventsHandler) HandleEventByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_event"

	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/events/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	removed, err := h.deps.RemoveEvent(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toEventResponse(removed))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

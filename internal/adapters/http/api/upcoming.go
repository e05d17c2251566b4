package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// defaultUpcomingLimit applies when the limit query parameter is absent.
const defaultUpcomingLimit = 10

// UpcomingHandler handles upcoming-events requests.
type UpcomingHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewUpcomingHandler creates a new upcoming handler.
func NewUpcomingHandler(deps Dependencies, maxLimit int) *UpcomingHandler {
	return &UpcomingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetUpcoming handles GET /events/upcoming?after=YYYY-MM-DD&limit=N
// requests. The after day itself is excluded; it defaults to today.
func (h *UpcomingHandler) HandleGetUpcoming(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_upcoming"

	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	after := model.DateOf(time.Now())
	if raw := r.URL.Query().Get("after"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		after = parsed
	}

	limit := defaultUpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	events := h.deps.UpcomingEvents(r.Context(), after, limit)
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

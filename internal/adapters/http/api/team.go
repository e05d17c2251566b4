package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carebridge/carebridge/internal/domain/roster"
)

// memberRequest mirrors the OpenAPI schema for POST /team.
type memberRequest struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// TeamHandler handles care-team roster requests.
type TeamHandler struct {
	deps Dependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps Dependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleTeam handles GET /team and POST /team requests.
func (h *TeamHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.team"

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Members(r.Context()))
	case http.MethodPost:
		var req memberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		role, err := roster.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		added, err := h.deps.AddMember(r.Context(), roster.Member{
			Name:  req.Name,
			Role:  role,
			Phone: req.Phone,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeJSON(w, http.StatusCreated, added)
	default:
		http.NotFound(w, r)
	}
}

// HandleMemberByID handles DELETE /team/{id} requests.
func (h *TeamHandler) HandleMemberByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_member"

	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/team/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	removed, err := h.deps.RemoveMember(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, removed)
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

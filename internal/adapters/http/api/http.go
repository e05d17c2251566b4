// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/carebridge/carebridge/internal/domain/model"
	"github.com/carebridge/carebridge/internal/domain/roster"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Calendar operations.
	AddEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error)
	RemoveEvent(ctx context.Context, id string) (model.CalendarEvent, error)
	Events(ctx context.Context) []model.CalendarEvent
	EventsOn(ctx context.Context, day model.Date) []model.CalendarEvent
	UpcomingEvents(ctx context.Context, after model.Date, limit int) []model.CalendarEvent

	// Medication scheduling.
	ScheduleDoses(ctx context.Context, med model.Medication) ([]model.DoseInstant, error)

	// Reminder sweep, exposed for manual triggering.
	SweepReminders(ctx context.Context) (int, error)

	// Care-team roster.
	AddMember(ctx context.Context, m roster.Member) (roster.Member, error)
	RemoveMember(ctx context.Context, id string) (roster.Member, error)
	Members(ctx context.Context) []roster.Member
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	upcomingHandler    *UpcomingHandler
	medicationsHandler *MedicationsHandler
	remindersHandler   *RemindersHandler
	teamHandler        *TeamHandler
	calendarHandler    *CalendarHandler
}

// NewServer creates a new API server with all handlers. Events posted without
// a color token get defaultColor; pass "" to fall back to the model default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUpcomingLimit int, defaultColor string) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		eventsHandler:      NewEventsHandler(deps, defaultColor),
		upcomingHandler:    NewUpcomingHandler(deps, maxUpcomingLimit),
		medicationsHandler: NewMedicationsHandler(deps),
		remindersHandler:   NewRemindersHandler(deps),
		teamHandler:        NewTeamHandler(deps),
		calendarHandler:    NewCalendarHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events/upcoming", MetricsMiddleware(s.upcomingHandler.HandleGetUpcoming, "upcoming"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleEventByID, "event"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/medications/schedule", MetricsMiddleware(s.medicationsHandler.HandleSchedule, "medications"))
	mux.HandleFunc("/reminders/sweep", MetricsMiddleware(s.remindersHandler.HandleSweep, "reminders"))
	mux.HandleFunc("/team/", MetricsMiddleware(s.teamHandler.HandleMemberByID, "team_member"))
	mux.HandleFunc("/team", MetricsMiddleware(s.teamHandler.HandleTeam, "team"))
	mux.HandleFunc("/calendar.ics", MetricsMiddleware(s.calendarHandler.HandleExport, "calendar_export"))
}

// eventRequest mirrors the OpenAPI schema for POST /events.
type eventRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// toEvent validates the wire payload and builds the domain event.
func (e eventRequest) toEvent() (model.CalendarEvent, error) {
	if strings.TrimSpace(e.Title) == "" {
		return model.CalendarEvent{}, model.ErrEmptyTitle
	}
	day, err := model.ParseDate(e.Date)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	tod, err := model.ParseTimeOfDay(e.Time)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	return model.NewEvent(e.ID, e.Title, day, tod, e.Description, e.Color)
}

// eventResponse is the wire shape of one calendar event.
type eventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

func toEventResponse(ev model.CalendarEvent) eventResponse {
	return eventResponse{
		ID:          ev.ID,
		Title:       ev.Title,
		Date:        ev.Date.String(),
		Time:        ev.Time.String(),
		Description: ev.Description,
		Color:       ev.Color,
	}
}

func toEventResponses(events []model.CalendarEvent) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, ev := range events {
		out[i] = toEventResponse(ev)
	}
	return out
}

type ackResponse struct {
	Status    string         `json:"status"`
	Duplicate bool           `json:"duplicate"`
	Event     *eventResponse `json:"event,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

package api

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
)

// defaultEventDuration pads each exported entry; the calendar itself stores
// only a start instant.
const defaultEventDuration = 30 * time.Minute

// CalendarHandler exports the full calendar in iCalendar format so external
// calendar apps can subscribe to it.
type CalendarHandler struct {
	deps Dependencies
}

// NewCalendarHandler creates a new calendar export handler.
func NewCalendarHandler(deps Dependencies) *CalendarHandler {
	return &CalendarHandler{deps: deps}
}

// HandleExport handles GET /calendar.ics requests.
func (h *CalendarHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//carebridge//calendar//EN")

	for _, ev := range h.deps.Events(r.Context()) {
		start := ev.Date.Time().Add(time.Duration(ev.Time) * time.Minute)

		entry := cal.AddEvent(ev.ID)
		entry.SetSummary(ev.Title)
		entry.SetStartAt(start)
		entry.SetEndAt(start.Add(defaultEventDuration))
		if ev.Description != "" {
			entry.SetDescription(ev.Description)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="carebridge.ics"`)
	_, _ = w.Write([]byte(cal.Serialize()))
}

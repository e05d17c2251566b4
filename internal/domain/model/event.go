// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// ColorDefault is applied when an event is created without a color token.
const ColorDefault = "sky"

// CalendarEvent is a titled, dated, timed entry on the care calendar.
// Events are immutable once stored; changes are full replacements.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        Date      `json:"-"`
	Time        TimeOfDay `json:"-"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
}

// NewEvent validates and builds a CalendarEvent. An empty id gets a fresh
// uuid; an empty color gets ColorDefault.
func NewEvent(id, title string, date Date, tod TimeOfDay, description, color string) (CalendarEvent, error) {
	if strings.TrimSpace(title) == "" {
		return CalendarEvent{}, ErrEmptyTitle
	}
	if !tod.Valid() {
		return CalendarEvent{}, ErrInvalidTime
	}
	if date.IsZero() {
		return CalendarEvent{}, ErrInvalidDate
	}
	if id == "" {
		id = uuid.NewString()
	}
	if color == "" {
		color = ColorDefault
	}
	return CalendarEvent{
		ID:          id,
		Title:       title,
		Date:        date,
		Time:        tod,
		Description: description,
		Color:       color,
	}, nil
}

// Less orders events chronologically by (date, time) with the id as a final
// deterministic tie-break.
func (e CalendarEvent) Less(o CalendarEvent) bool {
	if !e.Date.Equal(o.Date) {
		return e.Date.Before(o.Date)
	}
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	return e.ID < o.ID
}

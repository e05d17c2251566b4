// Package repository defines the calendar store interface and errors.
package repository

import (
	"context"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// Store holds the authoritative in-memory event list for one session.
// Consumers read chronological snapshots; the store itself never consults
// the clock.
type Store interface {
	// Add inserts an event. Returns ErrDuplicateID when the id is taken.
	Add(ctx context.Context, ev model.CalendarEvent) error

	// Get returns the event with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.CalendarEvent, error)

	// Remove deletes the event with the given id, or ErrNotFound.
	Remove(ctx context.Context, id string) (model.CalendarEvent, error)

	// All returns every event in chronological (date, time, id) order.
	All(ctx context.Context) []model.CalendarEvent

	// EventsOn returns the given day's events sorted by time of day.
	EventsOn(ctx context.Context, day model.Date) []model.CalendarEvent

	// Upcoming returns events strictly after the reference day ordered by
	// (date, time), capped when cap is positive.
	Upcoming(ctx context.Context, ref model.Date, cap int) []model.CalendarEvent

	// Len returns the number of stored events.
	Len(ctx context.Context) int
}

// Package schedule holds the pure calendar computations: day bucketing,
// upcoming-event selection, and recurring dose expansion. Nothing here
// touches storage or the clock.
package schedule

import (
	"sort"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// EventsOn returns the events whose date falls on the given civil day,
// sorted ascending by time of day. Time-of-day on the input set is the only
// sort key; the sort is stable so equal times keep their input order.
func EventsOn(day model.Date, events []model.CalendarEvent) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, ev := range events {
		if ev.Date.Equal(day) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// Upcoming returns the events strictly after the reference day, ordered by
// (date, time). The reference's time-of-day is irrelevant: comparison is on
// civil days only. A non-positive cap means no cap; a cap larger than the
// result set returns everything available.
func Upcoming(ref model.Date, events []model.CalendarEvent, cap int) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, ev := range events {
		if ev.Date.After(ref) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	if cap > 0 && len(out) > cap {
		out = out[:cap]
	}
	return out
}

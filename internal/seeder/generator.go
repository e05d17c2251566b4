package seeder

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/pkg/logger"
)

// Appointment templates the generator draws from. Titles and colors mimic
// what a real household calendar accumulates.
var (
	eventTitles = []string{
		"Physical therapy",
		"Cardiology check-up",
		"Pharmacy pickup",
		"Nurse visit",
		"Bloodwork",
		"Meal delivery",
		"Support group",
		"Dentist",
		"Eye exam",
		"Grocery run",
	}
	eventColors = []string{"sky", "emerald", "amber", "rose", "violet"}
)

// Scheduling bounds: events land on quarter-hour slots between 07:00 and
// 19:00 so the seeded calendar looks like daytime caregiving.
const (
	firstSlotMinute = 7 * 60
	lastSlotMinute  = 19 * 60
	slotGranularity = 15
)

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateEvents creates the configured number of events spread across the
// configured day window.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]Event, error) {
	logger.Get().Info(ctx, "generating calendar events",
		logger.Int("numEvents", config.NumEvents),
		logger.Int("days", config.Days),
	)

	events := make([]Event, config.NumEvents)

	type eventResult struct {
		index int
		event Event
		err   error
	}
	resultChan := make(chan eventResult, config.NumEvents)

	workerCount := minInt(config.Workers, config.NumEvents)
	eventsPerWorker := config.NumEvents / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * eventsPerWorker
		end := start + eventsPerWorker
		if worker == workerCount-1 {
			end = config.NumEvents
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- eventResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- eventResult{index: i, event: generateSingleEvent(config.Days)}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumEvents; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during event generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate event %d: %w", result.index, result.err)
			}
			events[result.index] = result.event
		}
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated events successfully", logger.Int("count", len(events)))

	return events, nil
}

// generateSingleEvent builds one event on a random day and quarter-hour slot.
func generateSingleEvent(days int) Event {
	if days < 1 {
		days = 1
	}
	day := time.Now().AddDate(0, 0, randomInt(days))

	slots := (lastSlotMinute - firstSlotMinute) / slotGranularity
	minute := firstSlotMinute + randomInt(slots)*slotGranularity

	title := eventTitles[randomInt(len(eventTitles))]

	return Event{
		ID:    uuid.NewString(),
		Title: title,
		Date:  day.Format("2006-01-02"),
		Time:  fmt.Sprintf("%02d:%02d", minute/60, minute%60),
		Color: eventColors[randomInt(len(eventColors))],
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

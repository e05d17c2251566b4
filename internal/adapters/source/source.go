// Package source defines the external event-source collaborator contract
// and its adapters: a sqlite-backed source and a latency-simulating stub.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// Sentinel kinds for source errors.
var (
	ErrUnavailable = errors.New("event source unavailable")
	ErrRejected    = errors.New("event rejected by source")
)

// EventSource is the narrow collaborator interface the service consumes.
// Both operations may fail; callers own surfacing the failure.
type EventSource interface {
	// FetchEvents returns the full event list.
	FetchEvents(ctx context.Context) ([]model.CalendarEvent, error)

	// CreateEvent persists one event and echoes the stored value.
	CreateEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error)
}

// LoadError marks an initial-load failure so callers can distinguish
// "empty because nothing exists" from "empty because the source failed".
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load from %s failed: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError wraps err as a LoadError for the named source.
func NewLoadError(source string, err error) *LoadError {
	return &LoadError{Source: source, Err: err}
}

package source

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// Default stub latency bounds, modeling a remote collaborator.
const (
	defaultStubMinLatency = 80 * time.Millisecond
	defaultStubMaxLatency = 150 * time.Millisecond
	defaultStubSeed       = 42
)

// StubOption applies a configuration option to the Stub.
type StubOption func(*Stub)

// WithLatencyRange sets the simulated round-trip latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) StubOption {
	return func(s *Stub) {
		if minLatency >= 0 && maxLatency > minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// WithSeedEvents preloads the stub with events returned by FetchEvents.
func WithSeedEvents(events []model.CalendarEvent) StubOption {
	return func(s *Stub) {
		s.events = append(s.events, events...)
	}
}

// WithFailure makes every call return err, modeling an unreachable source.
func WithFailure(err error) StubOption {
	return func(s *Stub) {
		s.failWith = err
	}
}

// Stub is an in-memory EventSource with simulated latency, standing in for
// the remote calendar backend during development and tests.
type Stub struct {
	mu       sync.Mutex
	events   []model.CalendarEvent
	failWith error

	minLatency time.Duration
	maxLatency time.Duration
	rng        *rand.Rand
}

// NewStub creates a stub source with configuration options.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{
		minLatency: defaultStubMinLatency,
		maxLatency: defaultStubMaxLatency,
		rng:        rand.New(rand.NewSource(defaultStubSeed)), //nolint:gosec // deterministic for reproducible tests
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sleep simulates the collaborator round trip, honoring ctx cancellation.
func (s *Stub) sleep(ctx context.Context) error {
	s.mu.Lock()
	span := s.maxLatency - s.minLatency
	d := s.minLatency
	if span > 0 {
		d += time.Duration(s.rng.Int63n(int64(span)))
	}
	s.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchEvents returns the seeded event list after the simulated delay.
func (s *Stub) FetchEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]model.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

// CreateEvent records the event and echoes it back after the delay.
func (s *Stub) CreateEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error) {
	if err := s.sleep(ctx); err != nil {
		return model.CalendarEvent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return model.CalendarEvent{}, s.failWith
	}
	s.events = append(s.events, ev)
	return ev, nil
}

// Package remind runs the daily reminder sweep: on a cron schedule it walks
// the current day's calendar and enqueues a reminder for every entry.
package remind

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	model "github.com/carebridge/carebridge/internal/domain/model"
	"github.com/carebridge/carebridge/internal/domain/notify"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/metrics"
)

// defaultSpec fires the sweep every morning at 07:00.
const defaultSpec = "0 7 * * *"

// EventLister provides the day's calendar entries.
type EventLister interface {
	EventsOn(ctx context.Context, day model.Date) []model.CalendarEvent
}

// Enqueuer accepts notifications for asynchronous delivery.
type Enqueuer interface {
	Enqueue(ctx context.Context, n notify.Notification) bool
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithSpec overrides the cron expression for the sweep.
func WithSpec(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.spec = spec
		}
	}
}

// WithClock overrides the time source, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// Scheduler owns the cron instance driving the sweep.
type Scheduler struct {
	cron   *cron.Cron
	lister EventLister
	queue  Enqueuer
	spec   string
	now    func() time.Time

	logger logger.Logger
}

// New creates a reminder scheduler; Start must be called to arm the cron.
func New(lister EventLister, queue Enqueuer, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:   cron.New(),
		lister: lister,
		queue:  queue,
		spec:   defaultSpec,
		now:    time.Now,
		logger: logger.Get().Named("remind"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the sweep with cron and starts it.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.SweepNow(context.Background())
	}); err != nil {
		return fmt.Errorf("register reminder sweep %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info(context.Background(), "reminder sweep scheduled", logger.String("spec", s.spec))
	return nil
}

// Stop halts the cron without waiting for a running sweep.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// SweepNow enqueues a reminder for each of today's events and returns the
// number of reminders accepted by the queue. Exposed for tests and for the
// manual-trigger endpoint.
func (s *Scheduler) SweepNow(ctx context.Context) int {
	today := model.DateOf(s.now())
	events := s.lister.EventsOn(ctx, today)

	accepted := 0
	for _, ev := range events {
		if s.queue.Enqueue(ctx, notify.EventReminder{Event: ev}) {
			accepted++
			metrics.RecordReminderEnqueued()
		} else {
			s.logger.Warn(ctx, "reminder dropped on backpressure",
				logger.String("event", ev.ID),
			)
		}
	}

	s.logger.Info(ctx, "reminder sweep complete",
		logger.String("day", today.String()),
		logger.Int("events", len(events)),
		logger.Int("accepted", accepted),
	)
	return accepted
}

// Package service provides the core coordination service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carebridge/carebridge/internal/adapters/chat"
	eventqueue "github.com/carebridge/carebridge/internal/adapters/mq/queue"
	workerpool "github.com/carebridge/carebridge/internal/adapters/mq/worker"
	"github.com/carebridge/carebridge/internal/adapters/remind"
	repository "github.com/carebridge/carebridge/internal/adapters/repository"
	"github.com/carebridge/carebridge/internal/adapters/source"
	"github.com/carebridge/carebridge/internal/domain/dedupe"
	"github.com/carebridge/carebridge/internal/domain/model"
	"github.com/carebridge/carebridge/internal/domain/notify"
	"github.com/carebridge/carebridge/internal/domain/roster"
	"github.com/carebridge/carebridge/internal/domain/schedule"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/metrics"
)

// doseColor marks medication-derived calendar entries apart from ordinary ones.
const doseColor = "violet"

// hubSink bridges delivered notifications onto the chat hub so every
// connected client sees them inline with the conversation.
type hubSink struct {
	hub *chat.Hub
}

func (s *hubSink) Deliver(ctx context.Context, n notify.Notification) error {
	err := s.hub.Publish(ctx, chat.Message{
		From: "carebridge",
		Text: n.Render(),
	})
	if errors.Is(err, chat.ErrClosed) {
		// Shutdown race; the log sink already has the notification.
		return nil
	}
	return err
}

// Service implements the API dependencies for the coordination system.
type Service struct {
	mu sync.RWMutex

	// Core components
	calendar  repository.Store
	source    source.EventSource
	deduper   dedupe.Deduper
	queue     eventqueue.Queue
	pool      *workerpool.Pool
	hub       *chat.Hub
	team      *roster.Roster
	reminders *remind.Scheduler

	// Configuration
	sourceName   string
	workerCount  int
	queueSize    int
	dedupeSize   int
	reminderSpec string
	now          func() time.Time

	// State
	started    bool
	loadFailed atomic.Bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of delivery workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the notification queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the duplicate-id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSource sets the upstream event source and its name for error
// reporting. The default is the in-memory stub.
func WithSource(name string, src source.EventSource) Option {
	return func(s *Service) {
		if src != nil {
			s.sourceName = name
			s.source = src
		}
	}
}

// WithReminderSpec overrides the cron expression for the reminder sweep.
func WithReminderSpec(spec string) Option {
	return func(s *Service) {
		if spec != "" {
			s.reminderSpec = spec
		}
	}
}

// WithClock overrides the time source, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		sourceName:  "stub",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting coordination service...")

	s.calendar = repository.NewTreapStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	if s.source == nil {
		s.source = source.NewStub()
	}
	s.hub = chat.NewHub()
	s.team = roster.New()

	sink := workerpool.NewFanoutSink(
		workerpool.NewLogSink(s.logger),
		&hubSink{hub: s.hub},
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, sink)
	s.pool.Start(ctx)

	reminderOpts := []remind.Option{remind.WithClock(s.now)}
	if s.reminderSpec != "" {
		reminderOpts = append(reminderOpts, remind.WithSpec(s.reminderSpec))
	}
	s.reminders = remind.New(s.calendar, s.queue, reminderOpts...)
	if err := s.reminders.Start(); err != nil {
		s.pool.Stop()
		s.hub.Close()
		return fmt.Errorf("start reminder scheduler: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "coordination service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("source", s.sourceName),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping coordination service...")

	s.reminders.Stop()

	// Stopping the pool closes the queue; workers drain what remains.
	s.pool.Stop()

	s.hub.Close()

	if closer, ok := s.source.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "coordination service stopped")
}

// Load pulls the full calendar from the event source into the store. A source
// failure leaves the service running with an empty calendar and the
// load-failed flag set; the caller decides whether to surface it.
func (s *Service) Load(ctx context.Context) error {
	events, err := s.source.FetchEvents(ctx)
	if err != nil {
		s.loadFailed.Store(true)
		return source.NewLoadError(s.sourceName, err)
	}

	loaded := 0
	for _, ev := range events {
		s.deduper.SeenAndRecord(ctx, ev.ID)
		if err := s.calendar.Add(ctx, ev); err != nil {
			s.logger.Warn(ctx, "skipping event during load",
				logger.String("event", ev.ID),
				logger.Error(err),
			)
			continue
		}
		loaded++
	}
	metrics.UpdateStoreEvents(s.calendar.Len(ctx))

	s.loadFailed.Store(false)
	s.logger.Info(ctx, "calendar loaded",
		logger.String("source", s.sourceName),
		logger.Int("events", loaded),
	)
	return nil
}

// LoadFailed reports whether the last Load attempt failed.
func (s *Service) LoadFailed() bool {
	return s.loadFailed.Load()
}

// AddEvent writes the event through to the source and, only on success,
// records it locally. A source failure leaves no local trace, so the same id
// can be retried.
func (s *Service) AddEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error) {
	if !s.isStarted() {
		return model.CalendarEvent{}, ErrNotStarted
	}

	if s.deduper.SeenAndRecord(ctx, ev.ID) {
		metrics.RecordEventDuplicate()
		if existing, err := s.calendar.Get(ctx, ev.ID); err == nil {
			return existing, ErrDuplicateEvent
		}
		return ev, ErrDuplicateEvent
	}

	created, err := s.source.CreateEvent(ctx, ev)
	if err != nil {
		s.deduper.Unrecord(ctx, ev.ID)
		return model.CalendarEvent{}, fmt.Errorf("create event via %s: %w", s.sourceName, err)
	}

	if err := s.calendar.Add(ctx, created); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			metrics.RecordEventDuplicate()
			return created, ErrDuplicateEvent
		}
		return model.CalendarEvent{}, err
	}

	metrics.RecordEventCreated()
	metrics.UpdateStoreEvents(s.calendar.Len(ctx))
	return created, nil
}

// RemoveEvent deletes an event and frees its id for reuse.
func (s *Service) RemoveEvent(ctx context.Context, id string) (model.CalendarEvent, error) {
	if !s.isStarted() {
		return model.CalendarEvent{}, ErrNotStarted
	}
	removed, err := s.calendar.Remove(ctx, id)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	s.deduper.Unrecord(ctx, id)
	metrics.UpdateStoreEvents(s.calendar.Len(ctx))
	return removed, nil
}

// Events returns every stored event in chronological order.
func (s *Service) Events(ctx context.Context) []model.CalendarEvent {
	return s.calendar.All(ctx)
}

// EventsOn returns the events falling on the given civil day, ordered by time.
func (s *Service) EventsOn(ctx context.Context, day model.Date) []model.CalendarEvent {
	return s.calendar.EventsOn(ctx, day)
}

// UpcomingEvents returns up to limit events strictly after the given day.
func (s *Service) UpcomingEvents(ctx context.Context, after model.Date, limit int) []model.CalendarEvent {
	return s.calendar.Upcoming(ctx, after, limit)
}

// ScheduleDoses expands a medication into dose instants and records each as a
// calendar event. Doses falling on the current day additionally get a
// reminder enqueued right away rather than waiting for the next sweep.
func (s *Service) ScheduleDoses(ctx context.Context, med model.Medication) ([]model.DoseInstant, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}

	instants, err := schedule.ExpandDoses(med)
	if err != nil {
		return nil, err
	}
	metrics.RecordDosesExpanded(len(instants))

	title := med.Name + " dose"
	today := model.DateOf(s.now())
	for _, instant := range instants {
		ev, err := model.NewEvent(
			instant.ID,
			title,
			instant.Date,
			instant.Time,
			instant.EffectiveDosage(med),
			doseColor,
		)
		if err != nil {
			return nil, fmt.Errorf("build dose event for %s: %w", med.Name, err)
		}
		if _, err := s.AddEvent(ctx, ev); err != nil && !errors.Is(err, ErrDuplicateEvent) {
			return nil, err
		}

		if instant.Date.Equal(today) {
			s.queue.Enqueue(ctx, notify.DoseReminder{
				MedicationName: med.Name,
				Dosage:         instant.EffectiveDosage(med),
				Date:           instant.Date,
				Time:           instant.Time,
			})
		}
	}

	s.logger.Info(ctx, "medication scheduled",
		logger.String("medication", med.Name),
		logger.Int("doses", len(instants)),
	)
	return instants, nil
}

// SweepReminders runs the reminder sweep immediately, outside the cron
// schedule, and returns the number of reminders enqueued.
func (s *Service) SweepReminders(ctx context.Context) (int, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}
	return s.reminders.SweepNow(ctx), nil
}

// AddMember adds a person to the care team and announces the change.
func (s *Service) AddMember(ctx context.Context, m roster.Member) (roster.Member, error) {
	if !s.isStarted() {
		return roster.Member{}, ErrNotStarted
	}
	added, err := s.team.Add(m)
	if err != nil {
		return roster.Member{}, err
	}
	s.queue.Enqueue(ctx, notify.TeamUpdate{MemberName: added.Name, Change: "joined"})
	return added, nil
}

// RemoveMember removes a person from the care team and announces the change.
func (s *Service) RemoveMember(ctx context.Context, id string) (roster.Member, error) {
	if !s.isStarted() {
		return roster.Member{}, ErrNotStarted
	}
	removed, err := s.team.Remove(id)
	if err != nil {
		return roster.Member{}, err
	}
	s.queue.Enqueue(ctx, notify.TeamUpdate{MemberName: removed.Name, Change: "left"})
	return removed, nil
}

// Members lists the care team sorted by name.
func (s *Service) Members(_ context.Context) []roster.Member {
	return s.team.List()
}

// Subscribe attaches a chat handler; the returned id feeds Unsubscribe.
func (s *Service) Subscribe(onMessage chat.Handler) (string, error) {
	if !s.isStarted() {
		return "", ErrNotStarted
	}
	return s.hub.Subscribe(onMessage)
}

// Unsubscribe detaches a chat subscription.
func (s *Service) Unsubscribe(id string) {
	s.hub.Unsubscribe(id)
}

// PostMessage publishes a chat message and raises a mention notification for
// every @name token in the text.
func (s *Service) PostMessage(ctx context.Context, from, text string) error {
	if !s.isStarted() {
		return ErrNotStarted
	}
	if err := s.hub.Publish(ctx, chat.Message{From: from, Text: text}); err != nil {
		return err
	}

	for _, word := range strings.Fields(text) {
		if len(word) > 1 && strings.HasPrefix(word, "@") {
			s.queue.Enqueue(ctx, notify.ChatMention{From: from, Text: text})
			break
		}
	}
	return nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"source":      s.sourceName,
		"loadFailed":  s.loadFailed.Load(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalEvents := s.calendar.Len(ctx)

		stats["queueLength"] = queueLen
		stats["totalEvents"] = totalEvents
		stats["teamSize"] = s.team.Len()
		stats["chatSubscribers"] = s.hub.Len()
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreEvents(totalEvents)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

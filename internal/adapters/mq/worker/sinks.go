package worker

import (
	"context"
	"errors"

	"github.com/carebridge/carebridge/internal/domain/notify"
	"github.com/carebridge/carebridge/pkg/logger"
)

// LogSink writes each rendered notification to the structured log. It is the
// delivery path of last resort and never fails.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a sink logging through l, or the global logger when nil.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.Get()
	}
	return &LogSink{logger: l.Named("notify")}
}

// Deliver logs the notification body at info level.
func (s *LogSink) Deliver(ctx context.Context, n notify.Notification) error {
	s.logger.Info(ctx, n.Render(),
		logger.String("priority", n.Priority().String()),
	)
	return nil
}

// FanoutSink delivers to every child sink and joins their errors.
type FanoutSink struct {
	sinks []Sink
}

// NewFanoutSink composes sinks into one; nil entries are skipped.
func NewFanoutSink(sinks ...Sink) *FanoutSink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &FanoutSink{sinks: out}
}

// Deliver pushes the notification to each child sink. All sinks are attempted
// even when earlier ones fail.
func (s *FanoutSink) Deliver(ctx context.Context, n notify.Notification) error {
	var errs []error
	for _, child := range s.sinks {
		if err := child.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carebridge/carebridge/internal/adapters/mq/queue"
	"github.com/carebridge/carebridge/internal/adapters/mq/worker"
	"github.com/carebridge/carebridge/internal/domain/notify"
	"github.com/carebridge/carebridge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

// captureSink records delivered notifications.
type captureSink struct {
	mu        sync.Mutex
	delivered []notify.Notification
	failWith  error
}

func (s *captureSink) Deliver(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.delivered = append(s.delivered, n)
	return nil
}

func (s *captureSink) snapshot() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Notification, len(s.delivered))
	copy(out, s.delivered)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDeliveryWorker(t *testing.T) {
	Convey("Given a worker over a queue and sink", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		Convey("When notifications are enqueued", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(8))
			sink := &captureSink{}
			w := worker.NewDeliveryWorker(q, sink, worker.WithName("test-worker"))
			go w.Run(ctx)

			So(q.Enqueue(ctx, notify.TeamUpdate{MemberName: "Dana", Change: "joined"}), ShouldBeTrue)
			So(q.Enqueue(ctx, notify.ChatMention{From: "Sam", Text: "hello"}), ShouldBeTrue)

			Convey("Then the sink receives them", func() {
				waitFor(t, func() bool { return len(sink.snapshot()) == 2 })
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the sink fails", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(8))
			sink := &captureSink{failWith: errors.New("sink offline")}
			w := worker.NewDeliveryWorker(q, sink)
			go w.Run(ctx)

			So(q.Enqueue(ctx, notify.TeamUpdate{MemberName: "Dana", Change: "left"}), ShouldBeTrue)

			Convey("Then the worker keeps running", func() {
				time.Sleep(50 * time.Millisecond)
				So(q.Enqueue(ctx, notify.TeamUpdate{MemberName: "Ana", Change: "joined"}), ShouldBeTrue)
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		sink := &captureSink{}
		pool := worker.NewPool(4, q, sink)
		pool.Start(ctx)

		Convey("When many notifications flow through", func() {
			for i := 0; i < 32; i++ {
				So(q.Enqueue(ctx, notify.ChatMention{From: "Sam", Text: "msg"}), ShouldBeTrue)
			}

			Convey("Then every notification is delivered exactly once", func() {
				waitFor(t, func() bool { return len(sink.snapshot()) == 32 })
				pool.Stop()
			})
		})

		Convey("When the pool stops with an empty queue", func() {
			pool.Stop()

			Convey("Then enqueues after close are rejected", func() {
				So(q.Enqueue(ctx, notify.TeamUpdate{MemberName: "x", Change: "left"}), ShouldBeFalse)
			})
		})
	})
}

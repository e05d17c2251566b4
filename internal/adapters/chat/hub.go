// Package chat provides the in-process message hub standing in for a hosted
// realtime messaging backend. Delivery is fire-and-forget: no acks, no
// ordering contract across subscribers, slow subscribers are skipped.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/metrics"
)

// Sentinel kinds for hub errors.
var (
	ErrClosed = errors.New("chat hub closed")
)

const subscriberBuffer = 32

// Message is one chat message flowing through the hub.
type Message struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Handler receives messages for one subscriber.
type Handler func(Message)

// Hub fans published messages out to every subscriber.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan Message
	closed bool
	wg     sync.WaitGroup

	logger logger.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]chan Message),
		logger: logger.Get().Named("chat"),
	}
}

// Subscribe registers a handler and returns its subscription id. The handler
// runs on a dedicated goroutine until Unsubscribe or Close.
func (h *Hub) Subscribe(onMessage Handler) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	ch := make(chan Message, subscriberBuffer)
	h.subs[id] = ch

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for msg := range ch {
			onMessage(msg)
		}
	}()

	return id, nil
}

// Publish fans a message out to all current subscribers. A message without
// an id or timestamp gets them filled in. Subscribers whose buffers are full
// miss the message.
func (h *Hub) Publish(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrClosed
	}

	for id, ch := range h.subs {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Slow subscriber; fire-and-forget means we drop, not block.
			h.logger.Warn(ctx, "dropping message for slow subscriber",
				logger.String("subscriber", id),
				logger.String("message", msg.ID),
			)
			metrics.RecordChatDropped()
		}
	}
	metrics.RecordChatPublished()
	return nil
}

// Unsubscribe removes a subscription; unknown ids are a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Close disconnects all subscribers and rejects further publishes.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

package repository

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/carebridge/carebridge/internal/domain/model"
	"github.com/carebridge/carebridge/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: date ASC, then time-of-day ASC, then event id ASC. In-order
// traversal therefore yields the calendar in chronological order, and both
// day buckets and the upcoming selector become bounded range scans.

// key is the total order over stored events.
type key struct {
	day    int // model.Date.Key(), YYYYMMDD
	minute int // minutes since midnight
	id     string
}

func keyOf(ev model.CalendarEvent) key {
	return key{day: ev.Date.Key(), minute: int(ev.Time), id: ev.ID}
}

// less reports whether a orders before b chronologically.
func (a key) less(b key) bool {
	if a.day != b.day {
		return a.day < b.day
	}
	if a.minute != b.minute {
		return a.minute < b.minute
	}
	return a.id < b.id
}

// treap node
type node struct {
	key   key
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, k key, prio uint64) *node {
	if n == nil {
		return &node{key: k, prio: prio, size: 1}
	}
	if k.less(n.key) {
		n.left = insert(n.left, k, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, k, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, k key) *node {
	if n == nil {
		return nil
	}
	switch {
	case k == n.key:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, k)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, k)
		}
	case k.less(n.key):
		n.left = deleteNode(n.left, k)
	default:
		n.right = deleteNode(n.right, k)
	}
	fix(n)
	return n
}

// collectRange appends events with lo <= key < hi in order, up to limit
// entries (limit < 0 means unbounded). Subtrees entirely outside the range
// are pruned.
func collectRange(n *node, lo, hi key, limit int, events map[string]model.CalendarEvent, out *[]model.CalendarEvent) {
	if n == nil || (limit >= 0 && len(*out) >= limit) {
		return
	}
	if lo.less(n.key) {
		collectRange(n.left, lo, hi, limit, events, out)
	}
	inRange := !n.key.less(lo) && n.key.less(hi)
	if inRange && (limit < 0 || len(*out) < limit) {
		if ev, ok := events[n.key.id]; ok {
			*out = append(*out, ev)
		}
	}
	if n.key.less(hi) {
		collectRange(n.right, lo, hi, limit, events, out)
	}
}

// TreapStore is the session-scoped calendar store.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]model.CalendarEvent
	rng  *rand.Rand
}

// NewTreapStore constructs an empty calendar store.
func NewTreapStore(_ context.Context) *TreapStore {
	return &TreapStore{
		byID: make(map[string]model.CalendarEvent),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // treap priorities, not security
	}
}

// Add implements Store.Add with O(log n) expected time.
func (s *TreapStore) Add(_ context.Context, ev model.CalendarEvent) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[ev.ID]; ok {
		return ErrDuplicateID
	}
	s.byID[ev.ID] = ev
	s.root = insert(s.root, keyOf(ev), s.rng.Uint64())
	metrics.UpdateStoreEvents(len(s.byID))
	return nil
}

// Get returns the stored event for id.
func (s *TreapStore) Get(_ context.Context, id string) (model.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.byID[id]
	if !ok {
		return model.CalendarEvent{}, ErrNotFound
	}
	return ev, nil
}

// Remove deletes the event with the given id.
func (s *TreapStore) Remove(_ context.Context, id string) (model.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.byID[id]
	if !ok {
		return model.CalendarEvent{}, ErrNotFound
	}
	delete(s.byID, id)
	s.root = deleteNode(s.root, keyOf(ev))
	metrics.UpdateStoreEvents(len(s.byID))
	return ev, nil
}

// All returns every event in chronological order.
func (s *TreapStore) All(_ context.Context) []model.CalendarEvent {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CalendarEvent, 0, len(s.byID))
	collectRange(s.root, minKey(), maxKey(), -1, s.byID, &out)
	return out
}

// EventsOn returns the given day's events sorted by time.
func (s *TreapStore) EventsOn(_ context.Context, day model.Date) []model.CalendarEvent {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := key{day: day.Key()}
	hi := key{day: day.Key() + 1}
	out := make([]model.CalendarEvent, 0)
	collectRange(s.root, lo, hi, -1, s.byID, &out)
	return out
}

// Upcoming returns events strictly after ref, capped when cap is positive.
func (s *TreapStore) Upcoming(_ context.Context, ref model.Date, cap int) []model.CalendarEvent {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := cap
	if limit <= 0 {
		limit = -1
	}
	lo := key{day: ref.Key() + 1}
	out := make([]model.CalendarEvent, 0)
	collectRange(s.root, lo, maxKey(), limit, s.byID, &out)
	return out
}

// Len returns the stored event count.
func (s *TreapStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func minKey() key { return key{} }

// maxKey sorts after every valid (day, minute, id) triple.
func maxKey() key { return key{day: 1<<31 - 1} }

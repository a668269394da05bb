package renderer

import (
	"sync"
	"time"
)

// FrameHandle identifies a pending frame request.
type FrameHandle uint64

// Scheduler is the host's animation frame service.
type Scheduler interface {
	// RequestFrame queues cb for the next tick.
	RequestFrame(cb func(now time.Duration)) FrameHandle
	// CancelFrame drops a pending request. Unknown handles are ignored.
	CancelFrame(h FrameHandle)
	// Now returns the current host time.
	Now() time.Duration
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Duration
}

// SystemClock measures wall time since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

func (c *SystemClock) Now() time.Duration { return time.Since(c.start) }

// ManualClock only moves when advanced. It drives recordings and tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// FrameQueue is a host owned frame queue. Callbacks requested while a tick is
// running are deferred to the following tick; callbacks cancelled while a
// tick is running are skipped.
type FrameQueue struct {
	clock   Clock
	next    FrameHandle
	pending map[FrameHandle]func(time.Duration)
	order   []FrameHandle
}

// NewFrameQueue creates a queue reading time from clock.
func NewFrameQueue(clock Clock) *FrameQueue {
	return &FrameQueue{
		clock:   clock,
		pending: make(map[FrameHandle]func(time.Duration)),
	}
}

var _ Scheduler = (*FrameQueue)(nil)

func (q *FrameQueue) RequestFrame(cb func(now time.Duration)) FrameHandle {
	q.next++
	q.pending[q.next] = cb
	q.order = append(q.order, q.next)
	return q.next
}

func (q *FrameQueue) CancelFrame(h FrameHandle) {
	delete(q.pending, h)
}

func (q *FrameQueue) Now() time.Duration { return q.clock.Now() }

// Tick runs every callback that was pending when it started, in request
// order, and returns how many ran.
func (q *FrameQueue) Tick() int {
	now := q.clock.Now()
	batch := q.order
	q.order = nil
	ran := 0
	for _, h := range batch {
		cb, ok := q.pending[h]
		if !ok {
			continue
		}
		delete(q.pending, h)
		cb(now)
		ran++
	}
	return ran
}

// Pending returns the number of callbacks waiting for a tick.
func (q *FrameQueue) Pending() int { return len(q.pending) }

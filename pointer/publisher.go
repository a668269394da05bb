package pointer

import (
	"sync"
)

// Event is a pointer move in logical host coordinates (top-left origin).
type Event struct {
	X, Y float64
}

// Source produces pointer events. Listen starts delivering events to fn and
// returns a function that stops delivery.
type Source interface {
	Listen(fn func(Event)) (stop func())
}

// Publisher fans one host pointer source out to any number of subscribers.
// The source listener is attached on the first subscription and detached
// when the last subscriber leaves.
type Publisher struct {
	mu     sync.Mutex
	source Source
	stop   func()
	subs   map[int]func(Event)
	nextID int
}

// NewPublisher creates a publisher reading from src. src may be nil and
// bound later.
func NewPublisher(src Source) *Publisher {
	return &Publisher{
		source: src,
		subs:   make(map[int]func(Event)),
	}
}

var (
	defaultOnce      sync.Once
	defaultPublisher *Publisher
)

// Default returns the process-wide publisher, creating it on first use.
func Default() *Publisher {
	defaultOnce.Do(func() {
		defaultPublisher = NewPublisher(nil)
	})
	return defaultPublisher
}

// Bind replaces the pointer source. If subscribers exist the old listener is
// detached and the new one attached immediately.
func (p *Publisher) Bind(src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detachLocked()
	p.source = src
	if len(p.subs) > 0 {
		p.attachLocked()
	}
}

// Subscribe registers fn for every published event.
func (p *Publisher) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	if len(p.subs) == 1 {
		p.attachLocked()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			if len(p.subs) == 0 {
				p.detachLocked()
			}
		})
	}
}

// Publish delivers ev to every subscriber. Subscribers may unsubscribe from
// inside their callback.
func (p *Publisher) Publish(ev Event) {
	p.mu.Lock()
	fns := make([]func(Event), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers returns the number of live subscriptions.
func (p *Publisher) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Listening reports whether the source listener is attached.
func (p *Publisher) Listening() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

func (p *Publisher) attachLocked() {
	if p.source == nil || p.stop != nil {
		return
	}
	p.stop = p.source.Listen(p.Publish)
}

func (p *Publisher) detachLocked() {
	if p.stop == nil {
		return
	}
	p.stop()
	p.stop = nil
}

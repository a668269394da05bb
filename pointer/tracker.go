package pointer

import (
	"math"

	"github.com/richinsley/goshaderfx/graphics"
)

// DefaultLambda is the damping rate in 1/seconds.
const DefaultLambda = 8.0

// Vec2 is a position in device pixels.
type Vec2 struct {
	X, Y float64
}

// Scope selects which pointer events a tracker accepts.
type Scope int

const (
	// ScopeNone never subscribes.
	ScopeNone Scope = iota
	// ScopeGlobal accepts every event on the host.
	ScopeGlobal
	// ScopeLocal accepts only events inside the surface bounds.
	ScopeLocal
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	default:
		return "none"
	}
}

// Damp moves current toward target with frame-rate independent exponential
// smoothing.
func Damp(current, target, lambda, dt float64) float64 {
	return current + (target-current)*(1-math.Exp(-lambda*dt))
}

// Locator reports the logical bounds and pixel ratio events are mapped into.
type Locator interface {
	LogicalBounds() graphics.Rect
	DevicePixelRatio() float64
}

// Tracker keeps the latest raw pointer position and a damped copy that lags
// behind it.
type Tracker struct {
	scope   Scope
	lambda  float64
	locator Locator

	raw    Vec2
	damped Vec2

	unsubscribe func()
}

// NewTracker creates a tracker mapping events into loc. A non-positive lambda
// selects DefaultLambda.
func NewTracker(scope Scope, lambda float64, loc Locator) *Tracker {
	if lambda <= 0 {
		lambda = DefaultLambda
	}
	return &Tracker{scope: scope, lambda: lambda, locator: loc}
}

// Attach subscribes the tracker to p according to its scope.
func (t *Tracker) Attach(p *Publisher) {
	if t.scope == ScopeNone || p == nil || t.unsubscribe != nil {
		return
	}
	t.unsubscribe = p.Subscribe(t.Move)
}

// Detach drops the subscription. It is safe to call more than once.
func (t *Tracker) Detach() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

// Move records ev as the new raw target.
func (t *Tracker) Move(ev Event) {
	bounds := t.locator.LogicalBounds()
	if t.scope == ScopeLocal && !bounds.Contains(ev.X, ev.Y) {
		return
	}
	dpr := t.locator.DevicePixelRatio()
	t.raw = Vec2{
		X: (ev.X - bounds.X) * dpr,
		Y: (ev.Y - bounds.Y) * dpr,
	}
}

// Update advances the damped position by dt seconds.
func (t *Tracker) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	t.damped.X = Damp(t.damped.X, t.raw.X, t.lambda, dt)
	t.damped.Y = Damp(t.damped.Y, t.raw.Y, t.lambda, dt)
}

func (t *Tracker) Raw() Vec2    { return t.raw }
func (t *Tracker) Damped() Vec2 { return t.damped }
func (t *Tracker) Scope() Scope { return t.scope }

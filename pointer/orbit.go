package pointer

import (
	"math"
	"time"
)

// Orbit is a synthetic pointer path circling a centre point, used when
// recording without a live cursor.
type Orbit struct {
	CenterX, CenterY float64
	Radius           float64
	Period           time.Duration
}

// At returns the position at t. A non-positive period holds the start point.
func (o Orbit) At(t time.Duration) Event {
	angle := 0.0
	if o.Period > 0 {
		angle = 2 * math.Pi * float64(t) / float64(o.Period)
	}
	return Event{
		X: o.CenterX + o.Radius*math.Cos(angle),
		Y: o.CenterY + o.Radius*math.Sin(angle),
	}
}

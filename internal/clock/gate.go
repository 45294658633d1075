// Package clock provides the periodic gate that paces telemetry uploads.
package clock

import "time"

// DefaultInterval is the upload cadence when none is configured.
const DefaultInterval = 10 * time.Second

// Gate allows one tick through per interval, measured on a millisecond
// counter. Unsigned subtraction keeps the comparison correct across counter
// wraparound as long as both sides share the same width.
type Gate struct {
	interval uint64
	lastTick uint64
	armed    bool
}

// NewGate returns a gate that fires at most once per interval. The first
// ShouldTick call always fires.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Gate{interval: uint64(interval.Milliseconds())}
}

// ShouldTick reports whether a tick is due at nowMillis and, when it is,
// records nowMillis as the last tick. A false return has no side effects.
func (g *Gate) ShouldTick(nowMillis uint64) bool {
	if g.armed && nowMillis-g.lastTick < g.interval {
		return false
	}
	g.lastTick = nowMillis
	g.armed = true
	return true
}

// Interval returns the configured interval in milliseconds.
func (g *Gate) Interval() uint64 { return g.interval }

var startTime = time.Now()

// Millis returns a monotonic millisecond counter for driving the gate.
func Millis() uint64 {
	return uint64(time.Since(startTime).Milliseconds())
}

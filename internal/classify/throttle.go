package classify

import "time"

// Throttle admits at most one event per interval for a single handler
// stream. Events arriving inside the window are dropped, not queued. It is
// pull-based: the owner asks before classifying, so there are no ambient
// timers to cancel on stop.
type Throttle struct {
	interval time.Duration
	last     time.Time
	primed   bool
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// TryAdmit reports whether an event observed at now may pass, and records
// the admission when it does.
func (t *Throttle) TryAdmit(now time.Time) bool {
	if t.interval <= 0 {
		return true
	}
	if !t.primed || now.Sub(t.last) >= t.interval {
		t.primed = true
		t.last = now
		return true
	}
	return false
}

// Reset re-opens the window, as if no event had been admitted yet.
func (t *Throttle) Reset() {
	t.primed = false
	t.last = time.Time{}
}

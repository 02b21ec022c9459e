package engine

import "time"

// CooldownTracker remembers when each source last had a message successfully
// forwarded and gates further forwards until the configured interval has
// elapsed. Entries are created on the first successful forward and kept for
// the process lifetime; growth is bounded by the number of monitored sources
// in practice.
type CooldownTracker struct {
	lastForward map[int64]time.Time
}

// NewCooldownTracker returns an empty tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		lastForward: make(map[int64]time.Time),
	}
}

// Allowed reports whether a forward from the source is eligible at the given
// time. A source with no recorded forward is always eligible, as is any
// source when the cooldown is zero.
func (t *CooldownTracker) Allowed(source int64, now time.Time, cooldownMinutes float64) bool {
	last, ok := t.lastForward[source]
	if !ok {
		return true
	}
	elapsed := now.Sub(last).Minutes()
	return elapsed >= cooldownMinutes
}

// Record notes a successful forward. Callers must only invoke this after the
// transport confirmed the forward, never on a bare filter match.
func (t *CooldownTracker) Record(source int64, now time.Time) {
	t.lastForward[source] = now
}

// Len reports how many sources have a recorded forward.
func (t *CooldownTracker) Len() int {
	return len(t.lastForward)
}

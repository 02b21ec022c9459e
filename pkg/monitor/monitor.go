package monitor

import "time"

// Feed event kinds.
const (
	KindReceived   = "RECEIVED"   // inbound message observed by the gateway
	KindForwarded  = "FORWARDED"  // message relayed to the destination group
	KindSuppressed = "SUPPRESSED" // keyword match held back by the cooldown
	KindError      = "ERROR"      // dispatch attempt failed
)

// FeedEvent is one entry in the relay's activity feed.
type FeedEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	Source     int64     `json:"source"`
	SourceName string    `json:"source_name,omitempty"`
	Content    string    `json:"content,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// Monitor receives activity-feed events from the gateway and the engine.
type Monitor interface {
	// Start brings the monitor up before any events flow.
	Start() error

	// Stop tears the monitor down.
	Stop() error

	// OnEvent receives a single feed event. Implementations must not block
	// the caller; the event path is the hot path.
	OnEvent(ev FeedEvent)
}

// MultiMonitor fans events out to several monitors at once.
type MultiMonitor struct {
	monitors []Monitor
}

// NewMultiMonitor bundles the given monitors.
func NewMultiMonitor(monitors ...Monitor) *MultiMonitor {
	return &MultiMonitor{monitors: monitors}
}

// Start starts every member, failing on the first error.
func (m *MultiMonitor) Start() error {
	for _, mon := range m.monitors {
		if err := mon.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops every member, keeping the first error.
func (m *MultiMonitor) Stop() error {
	var first error
	for _, mon := range m.monitors {
		if err := mon.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OnEvent forwards the event to every member.
func (m *MultiMonitor) OnEvent(ev FeedEvent) {
	for _, mon := range m.monitors {
		mon.OnEvent(ev)
	}
}

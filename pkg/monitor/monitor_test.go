package monitor

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type recordingMonitor struct {
	started bool
	stopped bool
	events  []FeedEvent
}

func (m *recordingMonitor) Start() error          { m.started = true; return nil }
func (m *recordingMonitor) Stop() error           { m.stopped = true; return nil }
func (m *recordingMonitor) OnEvent(ev FeedEvent)  { m.events = append(m.events, ev) }

func TestMultiMonitorFansOut(t *testing.T) {
	a := &recordingMonitor{}
	b := &recordingMonitor{}
	multi := NewMultiMonitor(a, b)

	if err := multi.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	multi.OnEvent(FeedEvent{ID: "x", Kind: KindForwarded})
	if err := multi.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	for i, m := range []*recordingMonitor{a, b} {
		if !m.started || !m.stopped {
			t.Fatalf("member %d lifecycle not driven: %+v", i, m)
		}
		if len(m.events) != 1 || m.events[0].ID != "x" {
			t.Fatalf("member %d missed the event: %+v", i, m.events)
		}
	}
}

func TestCLIMonitorOutput(t *testing.T) {
	var buf bytes.Buffer
	m := &CLIMonitor{writer: &buf}

	m.OnEvent(FeedEvent{
		Timestamp:  time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Kind:       KindSuppressed,
		Source:     100,
		SourceName: "@newsfeed",
		Detail:     "cooldown active",
		Content:    "urgent news",
	})

	out := buf.String()
	for _, want := range []string{KindSuppressed, "@newsfeed", "cooldown active", "urgent news"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %s", want, out)
		}
	}
}

func TestCLIMonitorFallsBackToNumericSource(t *testing.T) {
	var buf bytes.Buffer
	m := &CLIMonitor{writer: &buf}

	m.OnEvent(FeedEvent{Timestamp: time.Now(), Kind: KindReceived, Source: 42})

	if !strings.Contains(buf.String(), "42") {
		t.Fatalf("expected numeric source in output: %s", buf.String())
	}
}

package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"keywatch/pkg/api"
	"keywatch/pkg/monitor"
)

type stubTransport struct {
	id       string
	started  bool
	stopped  bool
	startErr error
	sink     api.EventSink
}

func (s *stubTransport) ID() string { return s.id }

func (s *stubTransport) Start(sink api.EventSink) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	s.sink = sink
	return nil
}

func (s *stubTransport) Stop() error {
	s.stopped = true
	return nil
}

func (s *stubTransport) ResolveEntity(ctx context.Context, name string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubTransport) ForwardMessage(ctx context.Context, destination int64, ev api.MessageEvent) error {
	return errors.New("not implemented")
}

type feedSpy struct {
	events []monitor.FeedEvent
}

func (f *feedSpy) Start() error                    { return nil }
func (f *feedSpy) Stop() error                     { return nil }
func (f *feedSpy) OnEvent(ev monitor.FeedEvent)    { f.events = append(f.events, ev) }

func TestBuilderWiresAndStarts(t *testing.T) {
	transport := &stubTransport{id: "stub"}
	feed := &feedSpy{}

	var handled []api.MessageEvent
	gw, err := NewBuilder().
		WithMonitor(feed).
		WithTransport(transport).
		WithHandler(func(ev api.MessageEvent) { handled = append(handled, ev) }).
		Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !transport.started {
		t.Fatalf("expected transport to be started")
	}

	ev := api.MessageEvent{Source: 100, SourceName: "@newsfeed", Text: "hello", Received: time.Now()}
	gw.OnEvent("stub", ev)

	if len(handled) != 1 || handled[0].Source != 100 {
		t.Fatalf("expected handler to receive the event, got %v", handled)
	}
	if len(feed.events) != 1 || feed.events[0].Kind != monitor.KindReceived {
		t.Fatalf("expected a RECEIVED feed event, got %+v", feed.events)
	}
	if feed.events[0].ID == "" {
		t.Fatalf("expected feed event to carry an ID")
	}

	gw.StopAll()
	if !transport.stopped {
		t.Fatalf("expected transport to be stopped")
	}
}

func TestBuilderSurfacesStartFailure(t *testing.T) {
	transport := &stubTransport{id: "stub", startErr: errors.New("auth failed")}

	if _, err := NewBuilder().WithTransport(transport).Build(); err == nil {
		t.Fatalf("expected Build to fail when a transport cannot start")
	}
}

func TestManagerGet(t *testing.T) {
	gw := NewManager()
	transport := &stubTransport{id: "stub"}
	gw.Register(transport)

	if got, ok := gw.Get("stub"); !ok || got.(*stubTransport) != transport {
		t.Fatalf("expected to retrieve the registered transport")
	}
	if _, ok := gw.Get("missing"); ok {
		t.Fatalf("expected missing transport lookup to fail")
	}
}

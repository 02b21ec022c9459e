package gateway

import (
	"fmt"
	"log/slog"
	"sync"

	"keywatch/pkg/api"
	"keywatch/pkg/monitor"
	"keywatch/pkg/utils"
)

// Manager owns every registered transport and routes their inbound events
// into a single handler. Handler invocation is synchronous, so events from
// one transport reach the engine strictly in arrival order. The engine's
// state discipline depends on that.
type Manager struct {
	transports map[string]api.Transport
	handler    api.EventHandler
	feed       monitor.Monitor
	mu         sync.RWMutex
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		transports: make(map[string]api.Transport),
	}
}

// SetEventHandler sets the core decision logic the events are fed into.
func (g *Manager) SetEventHandler(handler api.EventHandler) {
	g.handler = handler
}

// SetMonitor sets the activity feed.
func (g *Manager) SetMonitor(m monitor.Monitor) {
	g.feed = m
}

// Register adds a transport.
func (g *Manager) Register(t api.Transport) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transports[t.ID()] = t
}

// Get retrieves a registered transport by platform identifier.
func (g *Manager) Get(id string) (api.Transport, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.transports[id]
	return t, ok
}

// StartAll starts every registered transport with the manager as sink.
func (g *Manager) StartAll() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, t := range g.transports {
		slog.Info("Starting transport", "transport", id)
		if err := t.Start(g); err != nil {
			return fmt.Errorf("failed to start transport %s: %w", id, err)
		}
	}
	return nil
}

// StopAll stops every transport.
func (g *Manager) StopAll() {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, t := range g.transports {
		slog.Info("Stopping transport", "transport", id)
		if err := t.Stop(); err != nil {
			slog.Error("Error stopping transport", "transport", id, "error", err)
		}
	}
}

// OnEvent implements api.EventSink, receiving inbound events from transports.
func (g *Manager) OnEvent(transportID string, ev api.MessageEvent) {
	slog.Debug("Event received", "transport", transportID, "source", ev.Source, "len", len(ev.Text))

	if g.feed != nil {
		g.feed.OnEvent(monitor.FeedEvent{
			ID:         utils.GenerateID(),
			Timestamp:  ev.Received,
			Kind:       monitor.KindReceived,
			Source:     ev.Source,
			SourceName: ev.SourceName,
			Content:    ev.Text,
		})
	}

	if g.handler != nil {
		g.handler(ev)
	} else {
		slog.Warn("No event handler set")
	}
}

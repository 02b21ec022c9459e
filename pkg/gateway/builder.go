package gateway

import (
	"fmt"

	"keywatch/pkg/api"
	"keywatch/pkg/monitor"
)

// Builder provides a fluent interface for constructing and starting a
// Manager with all its dependencies. Transports and the handler are
// pre-built and injected as instances. The Builder simply assembles and
// starts them.
type Builder struct {
	gw         *Manager
	feed       monitor.Monitor
	transports []api.Transport
	handler    api.EventHandler
}

// NewBuilder creates a fresh Builder with an internal Manager to configure.
func NewBuilder() *Builder {
	return &Builder{
		gw: NewManager(),
	}
}

// WithMonitor injects the activity feed. It is started during Build().
func (b *Builder) WithMonitor(m monitor.Monitor) *Builder {
	b.feed = m
	return b
}

// WithTransport adds pre-built transport instances.
func (b *Builder) WithTransport(transports ...api.Transport) *Builder {
	b.transports = append(b.transports, transports...)
	return b
}

// WithHandler injects the event handler the gateway routes into.
func (b *Builder) WithHandler(h api.EventHandler) *Builder {
	b.handler = h
	return b
}

// Build wires everything into the Manager, starts the feed, and starts all
// transports. Returns the operational Manager or an error.
func (b *Builder) Build() (*Manager, error) {
	if b.feed != nil {
		b.gw.SetMonitor(b.feed)
		if err := b.feed.Start(); err != nil {
			return nil, fmt.Errorf("failed to start monitor: %w", err)
		}
	}

	for _, t := range b.transports {
		b.gw.Register(t)
	}

	if b.handler != nil {
		b.gw.SetEventHandler(b.handler)
	}

	if err := b.gw.StartAll(); err != nil {
		return nil, fmt.Errorf("failed to start transports: %w", err)
	}

	return b.gw, nil
}

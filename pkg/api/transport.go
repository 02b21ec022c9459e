package api

import (
	"context"
	"time"
)

// MessageEvent is the standardized internal representation of a single
// inbound message, regardless of which platform delivered it.
type MessageEvent struct {
	Source     int64     // Platform entity identifier of the originating chat/channel
	SourceName string    // Human-readable name of the source, when the platform provides one
	MessageID  int       // Platform message identifier, required for forwarding
	Text       string    // Plain text content (empty for media-only messages)
	Received   time.Time // Local receive timestamp
	Raw        any       // Optional original platform-specific payload
}

// Transport defines the standardized lifecycle interface for messaging
// platforms. It covers the capability set the relay engine needs: entity
// resolution, an event subscription, and the forward primitive.
type Transport interface {
	ID() string
	Start(sink EventSink) error
	Stop() error

	// ResolveEntity maps a human-readable source name (optionally prefixed
	// with a platform handle marker such as "@") to an entity identifier.
	ResolveEntity(ctx context.Context, name string) (int64, error)

	// ForwardMessage relays the original message to the destination entity.
	ForwardMessage(ctx context.Context, destination int64, ev MessageEvent) error
}

// EventSink provides the interface for a Transport implementation to push
// inbound events back into the gateway core.
type EventSink interface {
	OnEvent(transportID string, ev MessageEvent)
}

// EventHandler defines the function signature for processing inbound events.
type EventHandler func(ev MessageEvent)

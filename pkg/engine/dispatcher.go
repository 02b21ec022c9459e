package engine

import (
	"context"
	"fmt"
	"log/slog"

	"keywatch/pkg/api"
)

// Dispatcher forwards a matched message to the configured destination. The
// destination name is re-resolved on every dispatch; if it cannot be
// resolved, the transport is never contacted. A failed forward is dropped
// without retry.
type Dispatcher struct {
	transport api.Transport
	resolver  *Resolver
}

// NewDispatcher builds a dispatcher over the transport and resolver.
func NewDispatcher(transport api.Transport, resolver *Resolver) *Dispatcher {
	return &Dispatcher{transport: transport, resolver: resolver}
}

// Dispatch resolves the destination and invokes the platform forward
// primitive exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, ev api.MessageEvent, destination string) error {
	dest, ok := d.resolver.Resolve(ctx, destination)
	if !ok {
		return fmt.Errorf("could not find destination group: %s", destination)
	}

	if err := d.transport.ForwardMessage(ctx, dest, ev); err != nil {
		return fmt.Errorf("forward message: %w", err)
	}

	slog.Info("Message forwarded", "destination", destination)
	return nil
}

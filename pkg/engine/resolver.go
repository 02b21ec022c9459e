package engine

import (
	"context"
	"log/slog"
	"strings"

	"keywatch/pkg/api"
)

// Resolver maps human-readable source names to platform entity identifiers
// through the transport. Resolution failures of any kind (unknown name,
// network error, rate limit) are logged and reported uniformly as not-found;
// nothing here is ever fatal. Lookups are redone on every monitored-set
// rebuild rather than cached across refreshes.
type Resolver struct {
	transport api.Transport
}

// NewResolver wraps the given transport.
func NewResolver(transport api.Transport) *Resolver {
	return &Resolver{transport: transport}
}

// Resolve strips an optional "@" handle marker and asks the transport for the
// entity identifier.
func (r *Resolver) Resolve(ctx context.Context, name string) (int64, bool) {
	lookup := strings.TrimPrefix(name, "@")

	id, err := r.transport.ResolveEntity(ctx, lookup)
	if err != nil {
		slog.Error("Could not resolve entity", "name", name, "error", err)
		return 0, false
	}
	return id, true
}

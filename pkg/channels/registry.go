package channels

import (
	"keywatch/pkg/api"
	"keywatch/pkg/config"
)

// TransportFactory defines the abstract interface for platform-specific
// transport creators. This allows the relay to support new platforms
// without modifying the core gateway logic.
type TransportFactory interface {
	// Create instantiates a concrete Transport implementation from the
	// process settings.
	Create(settings *config.Settings) (api.Transport, error)
}

// transportRegistry is an internal global map storing the mapping between
// platform names (e.g., "telegram") and their factory implementations.
var transportRegistry = make(map[string]TransportFactory)

// Register adds a TransportFactory to the global internal registry.
// This is typically called during the package's init() phase.
func Register(name string, factory TransportFactory) {
	transportRegistry[name] = factory
}

// Get retrieves a registered TransportFactory by platform name.
func Get(name string) (TransportFactory, bool) {
	f, ok := transportRegistry[name]
	return f, ok
}

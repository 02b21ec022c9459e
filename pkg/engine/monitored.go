package engine

import (
	"context"
	"log/slog"

	"keywatch/pkg/config"
)

// BuildMonitoredSet resolves every declared channel and group name into the
// set of entity identifiers eligible for filtering. The set is rebuilt
// wholesale on every refresh; there is no incremental diffing. An inactive
// configuration yields an empty set without touching the transport, and
// names that fail to resolve are skipped rather than aborting the build.
// Tags are labels only, so two tags naming the same underlying entity
// collapse into one member.
func BuildMonitoredSet(ctx context.Context, resolver *Resolver, cfg *config.Config) map[int64]struct{} {
	set := make(map[int64]struct{})
	if !cfg.MonitoringActive {
		slog.Info("Monitoring is not active")
		return set
	}

	for _, src := range cfg.Channels {
		if id, ok := resolver.Resolve(ctx, src.Name); ok {
			set[id] = struct{}{}
			slog.Info("Monitoring channel", "name", src.Name)
		}
	}
	for _, src := range cfg.Groups {
		if id, ok := resolver.Resolve(ctx, src.Name); ok {
			set[id] = struct{}{}
			slog.Info("Monitoring group", "name", src.Name)
		}
	}

	slog.Info("Monitored set rebuilt", "entities", len(set))
	return set
}

package engine

import (
	"context"
	"log/slog"

	"keywatch/pkg/config"
)

// StatisticsStore bumps the persisted usage counters with a read-modify-write
// against the local config record. The write is not atomic relative to other
// writers of the same file; the engine serializes its own increments by only
// calling this from the event-processing path (see Engine.HandleMessage). A
// persistence failure costs at most that one event's counts.
type StatisticsStore struct {
	store config.Store
}

// NewStatisticsStore wraps the given store, normally the local file copy so
// counter updates never wait on the network.
func NewStatisticsStore(store config.Store) *StatisticsStore {
	return &StatisticsStore{store: store}
}

// Increment reads the persisted record, bumps the requested counters, and
// writes the whole record back. A missing or unreadable record starts from
// the built-in default so counters survive a corrupted file.
func (s *StatisticsStore) Increment(ctx context.Context, forwarded, triggered bool) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		slog.Error("Could not load config for statistics update", "error", err)
		cfg = config.Default()
	}

	if forwarded {
		cfg.Statistics.MessagesForwarded++
	}
	if triggered {
		cfg.Statistics.KeywordsTriggered++
	}

	if err := s.store.Save(ctx, cfg); err != nil {
		slog.Error("Failed to persist statistics", "error", err)
	}
}

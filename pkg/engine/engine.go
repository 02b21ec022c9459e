package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"keywatch/pkg/api"
	"keywatch/pkg/config"
	"keywatch/pkg/monitor"
	"keywatch/pkg/utils"
)

// Engine is the relay's decision core. It owns the configuration snapshot,
// the monitored entity set, and the cooldown state. Every inbound event runs
// the same pipeline: staleness check, membership gate, keyword filter,
// cooldown gate, trigger bookkeeping, dispatch, forward bookkeeping.
//
// All three pieces of state are guarded by one mutex. Events are expected to
// arrive from a single gateway goroutine, but the lock keeps the engine
// correct if a caller ever fans events out.
type Engine struct {
	cache      *config.Cache
	resolver   *Resolver
	dispatcher *Dispatcher
	stats      *StatisticsStore
	feed       monitor.Monitor
	now        func() time.Time

	mu        sync.Mutex
	watched   map[int64]struct{}
	cooldowns *CooldownTracker
}

// Options collects the engine's collaborators. Transport, Cache, and
// StatsStore are required; Feed and Now are optional.
type Options struct {
	Transport  api.Transport
	Cache      *config.Cache
	StatsStore config.Store
	Feed       monitor.Monitor
	Now        func() time.Time
}

// New assembles an engine from its collaborators.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	resolver := NewResolver(opts.Transport)
	return &Engine{
		cache:      opts.Cache,
		resolver:   resolver,
		dispatcher: NewDispatcher(opts.Transport, resolver),
		stats:      NewStatisticsStore(opts.StatsStore),
		feed:       opts.Feed,
		now:        now,
		watched:    make(map[int64]struct{}),
		cooldowns:  NewCooldownTracker(),
	}
}

// Refresh forces an immediate configuration reload and monitored-set rebuild,
// regardless of snapshot age. Called once at startup and whenever the config
// file watcher fires.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.Invalidate()
	e.refreshIfStale(ctx)
}

// HandleMessage runs one inbound event through the decision pipeline. It
// never returns an error to the transport: every failure past startup is
// logged and recovered locally, and one event's failure never affects the
// next.
func (e *Engine) HandleMessage(ctx context.Context, ev api.MessageEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	cfg := e.refreshIfStale(ctx)

	if !cfg.MonitoringActive {
		return
	}
	if _, ok := e.watched[ev.Source]; !ok {
		return
	}
	if ev.Text == "" {
		return
	}
	if !Matches(ev.Text, cfg.Keywords) {
		return
	}
	if !e.cooldowns.Allowed(ev.Source, now, cfg.CooldownMinutes) {
		slog.Info("Cooldown active for source", "source", ev.Source)
		e.emit(monitor.KindSuppressed, ev, "cooldown active")
		return
	}
	if cfg.DestinationGroup == "" {
		slog.Error("No destination group configured")
		return
	}

	// A dispatch failure still counts as triggered, so this runs first.
	e.stats.Increment(ctx, false, true)

	if err := e.dispatcher.Dispatch(ctx, ev, cfg.DestinationGroup); err != nil {
		slog.Error("Error forwarding message", "source", ev.Source, "error", err)
		e.emit(monitor.KindError, ev, err.Error())
		return
	}

	e.cooldowns.Record(ev.Source, now)
	e.stats.Increment(ctx, true, false)
	e.emit(monitor.KindForwarded, ev, cfg.DestinationGroup)
	slog.Info("Forwarded message", "source", ev.Source)
}

// refreshIfStale returns the current snapshot, rebuilding the monitored set
// whenever the cache actually attempted a reload. Callers hold e.mu.
func (e *Engine) refreshIfStale(ctx context.Context) *config.Config {
	cfg, refreshed := e.cache.GetOrRefresh(ctx)
	if refreshed {
		e.watched = BuildMonitoredSet(ctx, e.resolver, cfg)
	}
	return cfg
}

func (e *Engine) emit(kind string, ev api.MessageEvent, detail string) {
	if e.feed == nil {
		return
	}
	e.feed.OnEvent(monitor.FeedEvent{
		ID:         utils.GenerateID(),
		Timestamp:  e.now(),
		Kind:       kind,
		Source:     ev.Source,
		SourceName: ev.SourceName,
		Content:    ev.Text,
		Detail:     detail,
	})
}

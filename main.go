package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"keywatch/pkg/api"
	"keywatch/pkg/channels"
	_ "keywatch/pkg/channels/telegram" // register the telegram transport
	"keywatch/pkg/config"
	"keywatch/pkg/engine"
	"keywatch/pkg/gateway"
	"keywatch/pkg/health"
	"keywatch/pkg/monitor"
)

func main() {
	// --- 0. Process settings ---
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Missing required settings: %v", err)
	}

	monitor.SetupSlog(settings.LogLevel)

	log.Println("==========================================")

	// --- 1. Config stores ---
	local := config.NewFileStore(settings.ConfigPath)
	var store config.Store = local
	if settings.RemoteConfigURL != "" {
		remote := config.NewRemoteStore(settings.RemoteConfigURL, settings.RemoteConfigToken, nil)
		store = config.NewSyncedStore(remote, local)
	}
	cache := config.NewCache(store,
		config.WithStaleness(settings.Staleness()),
		config.WithRefreshTimeout(settings.RefreshTimeout()),
	)

	// --- 2. Activity feed ---
	wsFeed := monitor.NewWSMonitor()
	feed := monitor.NewMultiMonitor(monitor.NewCLIMonitor(), wsFeed)

	// --- 3. Transport ---
	factory, ok := channels.Get("telegram")
	if !ok {
		log.Fatalf("No telegram transport registered")
	}
	transport, err := factory.Create(settings)
	if err != nil {
		log.Fatalf("Failed to init telegram transport: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- 4. Decision engine ---
	eng := engine.New(engine.Options{
		Transport:  transport,
		Cache:      cache,
		StatsStore: local,
		Feed:       feed,
	})

	// --- 5. Gateway ---
	gw, err := gateway.NewBuilder().
		WithMonitor(feed).
		WithTransport(transport).
		WithHandler(func(ev api.MessageEvent) {
			eng.HandleMessage(ctx, ev)
		}).
		Build()
	if err != nil {
		log.Fatalf("Failed to build gateway: %v", err)
	}

	// Prime the config snapshot and monitored set before the first event.
	eng.Refresh(ctx)

	g, runCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.New(settings.HealthPort, wsFeed.Handler()).Run(runCtx)
	})
	if settings.KeepAliveURL != "" {
		g.Go(func() error {
			return health.NewPinger(settings.KeepAliveURL, 0, nil).Run(runCtx)
		})
	}
	if settings.RemoteConfigURL == "" {
		// The local file is canonical, so edits to it should take effect on
		// the next event instead of waiting out the staleness interval.
		// With a remote store configured the mirror writes would retrigger
		// the watcher, so it stays off.
		g.Go(func() error {
			changes := config.Watch(runCtx, settings.ConfigPath)
			for {
				select {
				case <-runCtx.Done():
					return runCtx.Err()
				case _, ok := <-changes:
					if !ok {
						return nil
					}
					cache.Invalidate()
				}
			}
		})
	}

	slog.Info("Relay agent running", "account", settings.AccountID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("\nReceived shutdown signal. Stopping services...")

	cancel()
	gw.StopAll()
	feed.Stop()
	g.Wait()
	log.Println("Bye!")
}

package health

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultPingInterval = 10 * time.Minute

// Pinger keeps the hosting platform from idling the process by periodically
// fetching its own externally-reachable URL.
type Pinger struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
}

// NewPinger builds a pinger for the given URL. A nil client gets a default
// with a conservative timeout; a non-positive interval falls back to the
// default ten minutes.
func NewPinger(url string, interval time.Duration, client *http.Client) *Pinger {
	if interval <= 0 {
		interval = defaultPingInterval
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Pinger{url: url, interval: interval, httpClient: client}
}

// Run pings on the configured interval until the context is canceled. Ping
// failures are logged and the loop keeps going.
func (p *Pinger) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.ping(ctx); err != nil {
				slog.Warn("Keep-alive ping failed", "url", p.url, "error", err)
			} else {
				slog.Info("Self ping - keeping process alive")
			}
		}
	}
}

func (p *Pinger) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ping failed: status %s", resp.Status)
	}
	return nil
}

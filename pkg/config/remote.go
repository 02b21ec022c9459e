package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrRemoteReadOnly is returned by RemoteStore.Save; the agent never writes
// back to the remote versioned store.
var ErrRemoteReadOnly = errors.New("remote config store is read-only")

// remoteFile mirrors the versioned-file-contents API response: the record is
// wrapped as a base64 payload alongside its version identifier.
type remoteFile struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

// RemoteStore fetches the configuration record from a versioned-file-contents
// HTTP API (GitHub contents style).
type RemoteStore struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewRemoteStore builds a remote store for the given contents endpoint.
// A nil client gets a default with a conservative timeout.
func NewRemoteStore(url, token string, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteStore{url: url, token: token, httpClient: client}
}

// Load performs a single GET against the contents API and decodes the wrapped
// record. Any non-success status or transport error is returned to the caller,
// which falls back to the local copy.
func (s *RemoteStore) Load(ctx context.Context) (*Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build remote config request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("remote config fetch failed: status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read remote config response: %w", err)
	}

	var file remoteFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("parse remote config envelope: %w", err)
	}

	// The contents API wraps base64 across multiple lines.
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(file.Content), ""))
	if err != nil {
		return nil, fmt.Errorf("decode remote config payload: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse remote config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid remote config: %w", err)
	}

	slog.Debug("Remote config fetched", "sha", file.SHA)
	return cfg, nil
}

// Save is not supported on the remote side.
func (s *RemoteStore) Save(ctx context.Context, cfg *Config) error {
	return ErrRemoteReadOnly
}

// SyncedStore layers the remote store over the local file copy: a successful
// remote load becomes canonical and overwrites the local file, a failed one
// falls back to whatever is on disk. Writes only ever touch the local copy.
type SyncedStore struct {
	remote *RemoteStore
	local  *FileStore
}

// NewSyncedStore combines a remote contents endpoint with its local fallback.
func NewSyncedStore(remote *RemoteStore, local *FileStore) *SyncedStore {
	return &SyncedStore{remote: remote, local: local}
}

// Load tries the remote first; the local copy is both the fallback and the
// mirror of the last known-good remote record.
func (s *SyncedStore) Load(ctx context.Context) (*Config, error) {
	cfg, err := s.remote.Load(ctx)
	if err != nil {
		slog.Warn("Remote config unavailable, using local copy", "error", err)
		return s.local.Load(ctx)
	}

	if err := s.local.Save(ctx, cfg); err != nil {
		slog.Error("Failed to mirror remote config locally", "error", err)
	}
	return cfg, nil
}

// Save persists to the local copy only.
func (s *SyncedStore) Save(ctx context.Context, cfg *Config) error {
	return s.local.Save(ctx, cfg)
}

package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func contentsEnvelope(t *testing.T, payload string) string {
	t.Helper()
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))
	// The contents API wraps base64 across lines; make sure we cope.
	wrapped := encoded[:len(encoded)/2] + "\n" + encoded[len(encoded)/2:]
	return fmt.Sprintf(`{"content": %q, "encoding": "base64", "sha": "abc123"}`, wrapped)
}

func TestRemoteStoreLoad(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, contentsEnvelope(t, sampleConfigJSON))
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "secret-token", srv.Client())
	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if !cfg.MonitoringActive || cfg.DestinationGroup != "@ops" {
		t.Fatalf("unexpected record: %+v", cfg)
	}
}

func TestRemoteStoreLoadNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewRemoteStore(srv.URL, "", srv.Client()).Load(context.Background()); err == nil {
		t.Fatalf("expected error on non-success status")
	}
}

func TestRemoteStoreLoadBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": "!!! not base64 !!!", "encoding": "base64"}`)
	}))
	defer srv.Close()

	if _, err := NewRemoteStore(srv.URL, "", srv.Client()).Load(context.Background()); err == nil {
		t.Fatalf("expected error on undecodable payload")
	}
}

func TestRemoteStoreSaveIsReadOnly(t *testing.T) {
	store := NewRemoteStore("http://localhost:0", "", nil)
	if err := store.Save(context.Background(), Default()); err != ErrRemoteReadOnly {
		t.Fatalf("expected ErrRemoteReadOnly, got %v", err)
	}
}

func TestSyncedStoreMirrorsRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contentsEnvelope(t, sampleConfigJSON))
	}))
	defer srv.Close()

	localPath := filepath.Join(t.TempDir(), "config.json")
	local := NewFileStore(localPath)
	synced := NewSyncedStore(NewRemoteStore(srv.URL, "", srv.Client()), local)

	cfg, err := synced.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.MonitoringActive {
		t.Fatalf("expected remote record")
	}

	// The remote record became canonical and overwrote the local copy.
	mirrored, err := local.Load(context.Background())
	if err != nil {
		t.Fatalf("expected mirrored local copy: %v", err)
	}
	if mirrored.DestinationGroup != "@ops" {
		t.Fatalf("unexpected mirrored record: %+v", mirrored)
	}
}

func TestSyncedStoreFallsBackToLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	localPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(localPath, []byte(sampleConfigJSON), 0o600); err != nil {
		t.Fatalf("seed local config: %v", err)
	}

	synced := NewSyncedStore(NewRemoteStore(srv.URL, "", srv.Client()), NewFileStore(localPath))
	cfg, err := synced.Load(context.Background())
	if err != nil {
		t.Fatalf("expected fallback to local, got error: %v", err)
	}
	if cfg.DestinationGroup != "@ops" {
		t.Fatalf("unexpected fallback record: %+v", cfg)
	}
}

func TestSyncedStoreSaveWritesLocalOnly(t *testing.T) {
	var remoteHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteHits++
		fmt.Fprint(w, contentsEnvelope(t, sampleConfigJSON))
	}))
	defer srv.Close()

	localPath := filepath.Join(t.TempDir(), "config.json")
	local := NewFileStore(localPath)
	synced := NewSyncedStore(NewRemoteStore(srv.URL, "", srv.Client()), local)

	if err := synced.Save(context.Background(), Default()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if remoteHits != 0 {
		t.Fatalf("expected save to skip the remote, got %d hits", remoteHits)
	}
	if _, err := local.Load(context.Background()); err != nil {
		t.Fatalf("expected local copy written: %v", err)
	}
}

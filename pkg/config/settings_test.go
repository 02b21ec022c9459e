package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleSettingsYAML = `
bot_token: file-token
account_id: relay-01
config_path: /data/config.json
health_port: 9000
log_level: debug
staleness_sec: 45
`

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envSettingsPath, "BOT_TOKEN", "ACCOUNT_ID", "CONFIG_PATH", "CONFIG_URL",
		"CONFIG_TOKEN", "PING_URL", "LOG_LEVEL", "HEALTH_PORT",
		"CONFIG_STALENESS_SEC", "CONFIG_REFRESH_TIMEOUT_SEC",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if s.ConfigPath != "config.json" || s.HealthPort != 8080 || s.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.Staleness() != 0 {
		t.Fatalf("expected zero staleness override by default")
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(sampleSettingsYAML), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	t.Setenv(envSettingsPath, path)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if s.BotToken != "file-token" || s.AccountID != "relay-01" {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if s.HealthPort != 9000 || s.Staleness() != 45*time.Second {
		t.Fatalf("unexpected numeric settings: %+v", s)
	}
}

func TestLoadSettingsEnvOverridesFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(sampleSettingsYAML), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	t.Setenv(envSettingsPath, path)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("HEALTH_PORT", "7777")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if s.BotToken != "env-token" {
		t.Fatalf("expected env to win, got %q", s.BotToken)
	}
	if s.HealthPort != 7777 {
		t.Fatalf("expected env port, got %d", s.HealthPort)
	}
	// Untouched file values survive.
	if s.AccountID != "relay-01" {
		t.Fatalf("expected file value to survive, got %q", s.AccountID)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err == nil {
		t.Fatalf("expected missing token to fail validation")
	}

	s.BotToken = "token"
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	s.HealthPort = -1
	if err := s.Validate(); err == nil {
		t.Fatalf("expected bad port to fail validation")
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const envSettingsPath = "KEYWATCH_SETTINGS"

// Settings holds the process-level knobs that never live in the relay's
// configuration record: platform credentials, store locations, and ports.
// Values come from environment variables, optionally seeded by a YAML file
// pointed at by KEYWATCH_SETTINGS; an env var always wins over the file.
type Settings struct {
	// BotToken authenticates against the messaging platform. Required.
	BotToken string `yaml:"bot_token"`
	// AccountID labels which account this agent runs as, for logs only.
	AccountID string `yaml:"account_id"`
	// ConfigPath is the local config.json location.
	ConfigPath string `yaml:"config_path"`
	// RemoteConfigURL points at the versioned-file-contents endpoint for
	// the canonical config. Empty disables the remote store entirely.
	RemoteConfigURL string `yaml:"remote_config_url"`
	// RemoteConfigToken authorizes remote config fetches.
	RemoteConfigToken string `yaml:"remote_config_token"`
	// HealthPort is where the health endpoint listens.
	HealthPort int `yaml:"health_port"`
	// KeepAliveURL is the externally-reachable URL pinged periodically to
	// keep the hosting platform from idling the process. Empty disables it.
	KeepAliveURL string `yaml:"keepalive_url"`
	// LogLevel sets the minimum severity: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// StalenessSec overrides how long a config snapshot stays fresh.
	StalenessSec int `yaml:"staleness_sec"`
	// RefreshTimeoutSec bounds a single config load.
	RefreshTimeoutSec int `yaml:"refresh_timeout_sec"`
}

// DefaultSettings returns the baseline before file and env overrides apply.
func DefaultSettings() *Settings {
	return &Settings{
		ConfigPath: "config.json",
		HealthPort: 8080,
		LogLevel:   "info",
	}
}

// LoadSettings assembles Settings from defaults, the optional YAML file, and
// the environment, in that order.
func LoadSettings() (*Settings, error) {
	s := DefaultSettings()

	if path := os.Getenv(envSettingsPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read settings file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse settings file %q: %w", path, err)
		}
	}

	applyEnvString(&s.BotToken, "BOT_TOKEN")
	applyEnvString(&s.AccountID, "ACCOUNT_ID")
	applyEnvString(&s.ConfigPath, "CONFIG_PATH")
	applyEnvString(&s.RemoteConfigURL, "CONFIG_URL")
	applyEnvString(&s.RemoteConfigToken, "CONFIG_TOKEN")
	applyEnvString(&s.KeepAliveURL, "PING_URL")
	applyEnvString(&s.LogLevel, "LOG_LEVEL")
	applyEnvInt(&s.HealthPort, "HEALTH_PORT")
	applyEnvInt(&s.StalenessSec, "CONFIG_STALENESS_SEC")
	applyEnvInt(&s.RefreshTimeoutSec, "CONFIG_REFRESH_TIMEOUT_SEC")

	return s, nil
}

// Validate enforces the credentials the process cannot start without.
func (s *Settings) Validate() error {
	if s.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if s.HealthPort <= 0 || s.HealthPort > 65535 {
		return fmt.Errorf("health port %d out of range", s.HealthPort)
	}
	return nil
}

// Staleness returns the configured staleness interval, or zero when unset so
// the cache falls back to its default.
func (s *Settings) Staleness() time.Duration {
	return time.Duration(s.StalenessSec) * time.Second
}

// RefreshTimeout returns the configured load timeout, or zero when unset.
func (s *Settings) RefreshTimeout() time.Duration {
	return time.Duration(s.RefreshTimeoutSec) * time.Second
}

func applyEnvString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyEnvInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

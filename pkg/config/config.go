package config

import (
	"fmt"
	"time"
)

// Source declares a single monitored channel or group. The map key it lives
// under is an opaque tag used only for labeling; Name is what gets resolved
// against the platform.
type Source struct {
	// Name is the resolvable source identifier, e.g. "@newsfeed".
	Name string `json:"name"`
}

// Statistics holds the running usage counters persisted alongside the
// configuration record.
type Statistics struct {
	// MessagesForwarded counts successful forwards to the destination group.
	MessagesForwarded int `json:"messages_forwarded"`
	// KeywordsTriggered counts keyword matches, whether or not the
	// subsequent forward succeeded.
	KeywordsTriggered int `json:"keywords_triggered"`
	// LastReset marks when the counters were last zeroed.
	LastReset time.Time `json:"last_reset"`
}

// Config is the single mutable configuration record driving the relay.
// It maps directly to the persisted config.json file. A loaded record is
// treated as an immutable snapshot; refresh replaces the whole record,
// never merges fields.
type Config struct {
	// MonitoringActive gates the entire decision pipeline. When false,
	// every inbound event is discarded and no entity resolution happens.
	MonitoringActive bool `json:"monitoring_active"`
	// Keywords are matched case-insensitively against message text with
	// OR semantics. Plain substring, no word boundaries.
	Keywords []string `json:"keywords"`
	// CooldownMinutes is the minimum interval between two successful
	// forwards originating from the same source. Zero disables the gate.
	CooldownMinutes float64 `json:"cooldown"`
	// DestinationGroup is the platform source name all matches are
	// forwarded to. Empty means unset.
	DestinationGroup string `json:"destination_group"`
	// Channels and Groups declare the monitored sources, keyed by an
	// opaque tag.
	Channels map[string]Source `json:"channels"`
	Groups   map[string]Source `json:"groups"`
	// Statistics carries the usage counters.
	Statistics Statistics `json:"statistics"`
}

// Default returns the built-in fallback record: monitoring off, no sources,
// counters zeroed with a fresh reset timestamp. Used when no record has ever
// loaded successfully.
func Default() *Config {
	return &Config{
		Keywords: []string{},
		Channels: map[string]Source{},
		Groups:   map[string]Source{},
		Statistics: Statistics{
			LastReset: time.Now().UTC(),
		},
	}
}

// Validate checks the structural sanity of a loaded record.
func (c *Config) Validate() error {
	if c.CooldownMinutes < 0 {
		return fmt.Errorf("cooldown must be >= 0, got %v", c.CooldownMinutes)
	}
	if c.Statistics.MessagesForwarded < 0 || c.Statistics.KeywordsTriggered < 0 {
		return fmt.Errorf("statistics counters must be >= 0")
	}
	return nil
}

// Clone returns a deep copy so a snapshot handed to the engine cannot be
// mutated behind its back by a later store write.
func (c *Config) Clone() *Config {
	out := *c
	out.Keywords = append([]string{}, c.Keywords...)
	out.Channels = make(map[string]Source, len(c.Channels))
	for tag, src := range c.Channels {
		out.Channels[tag] = src
	}
	out.Groups = make(map[string]Source, len(c.Groups))
	for tag, src := range c.Groups {
		out.Groups[tag] = src
	}
	return &out
}

// SourceNames returns the declared channel names followed by the group names.
// Duplicate underlying entities collapse later when the monitored set is built.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Channels)+len(c.Groups))
	for _, src := range c.Channels {
		names = append(names, src.Name)
	}
	for _, src := range c.Groups {
		names = append(names, src.Name)
	}
	return names
}

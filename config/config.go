// Package config loads service settings from YAML. A missing file yields the
// defaults; a malformed file is an error — silently running with defaults
// after a typo'd config has burned us in the "off by one hour" way.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "24h" and "5m" parse
// directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	// Cache geometry.
	Shards   int    `yaml:"shards"`
	Capacity int    `yaml:"capacity"`
	Eviction string `yaml:"eviction"` // LRU, LFU, or FIFO

	// ResultTTL bounds how long a computed result may be served even if no
	// receipt changes.
	ResultTTL Duration `yaml:"result_ttl"`

	// Retention is the cleanup sweep's age limit for conversation caches
	// and persisted entries.
	Retention Duration `yaml:"retention"`

	// Sweep cadence.
	CleanupInterval  Duration `yaml:"cleanup_interval"`
	TemporalInterval Duration `yaml:"temporal_interval"`

	// The temporal sweep only fires when the local hour h satisfies
	// TemporalStartHour <= h < TemporalEndHour.
	TemporalStartHour int `yaml:"temporal_start_hour"`
	TemporalEndHour   int `yaml:"temporal_end_hour"`

	// Persisted mirror.
	PersistDir   string `yaml:"persist_dir"`
	MirrorBuffer int    `yaml:"mirror_buffer"`
}

// Default returns the settings used when no config file is present.
func Default() Config {
	return Config{
		Shards:            4,
		Capacity:          10000,
		Eviction:          "LRU",
		ResultTTL:         Duration(15 * time.Minute),
		Retention:         Duration(24 * time.Hour),
		CleanupInterval:   Duration(time.Hour),
		TemporalInterval:  Duration(5 * time.Minute),
		TemporalStartHour: 6,
		TemporalEndHour:   23,
		PersistDir:        defaultPersistDir(),
		MirrorBuffer:      1024,
	}
}

// Load reads path and overlays it on the defaults. An empty path falls back
// to the SEARCHCACHE_CFG env variable; no path and no env means defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SEARCHCACHE_CFG")
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Shards <= 0 {
		return fmt.Errorf("shards must be positive, got %d", c.Shards)
	}
	if c.Capacity < c.Shards {
		return fmt.Errorf("capacity %d below shard count %d", c.Capacity, c.Shards)
	}
	switch c.Eviction {
	case "LRU", "LFU", "FIFO":
	default:
		return fmt.Errorf("unknown eviction policy %q", c.Eviction)
	}
	if c.TemporalStartHour < 0 || c.TemporalEndHour > 24 || c.TemporalStartHour >= c.TemporalEndHour {
		return fmt.Errorf("bad temporal window %d-%d", c.TemporalStartHour, c.TemporalEndHour)
	}
	if c.Retention.Std() <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	return nil
}

// defaultPersistDir resolves the mirror directory: SEARCHCACHE_DIR if set,
// else the platform cache dir, else a local fallback.
func defaultPersistDir() string {
	if d := os.Getenv("SEARCHCACHE_DIR"); d != "" {
		return d
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return dir + "/receiptwise-searchcache"
	}
	return ".searchcache"
}

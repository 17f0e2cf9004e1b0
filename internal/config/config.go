// Package config loads service configuration from defaults, an optional YAML
// file, and MOODTRACK_ environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"moodtrack/internal/logging"
)

// EnvPrefix is stripped from environment variable names.
const EnvPrefix = "MOODTRACK_"

// Config is the full service configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Store    StoreConfig    `koanf:"store"`
	Log      logging.Config `koanf:"log"`
	Timezone string         `koanf:"timezone"`
	Platform PlatformConfig `koanf:"platform"`
	Location LocationConfig `koanf:"location"`
	Jobs     JobsConfig     `koanf:"jobs"`
}

// HTTPConfig configures the settings API.
type HTTPConfig struct {
	Addr          string `koanf:"addr"`
	WebDir        string `koanf:"web_dir"`
	DeepLinkRoute string `koanf:"deep_link_route"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver     string `koanf:"driver"`
	DSN        string `koanf:"dsn"`
	SQLitePath string `koanf:"sqlite_path"`
}

// PlatformConfig seeds the permission grants and device conditions.
type PlatformConfig struct {
	APILevel             int  `koanf:"api_level"`
	ExactAlarmsGranted   bool `koanf:"exact_alarms_granted"`
	NotificationsGranted bool `koanf:"notifications_granted"`
	FineLocation         bool `koanf:"fine_location"`
	CoarseLocation       bool `koanf:"coarse_location"`
	BatteryLow           bool `koanf:"battery_low"`
	NetworkConnected     bool `koanf:"network_connected"`
}

// LocationConfig configures the fixed location provider.
type LocationConfig struct {
	Enabled        bool    `koanf:"enabled"`
	Latitude       float64 `koanf:"latitude"`
	Longitude      float64 `koanf:"longitude"`
	AccuracyMeters float64 `koanf:"accuracy_meters"`
}

// JobsConfig tunes the host job scheduler.
type JobsConfig struct {
	MinPeriod       time.Duration `koanf:"min_period"`
	ExecutionBudget time.Duration `koanf:"execution_budget"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"http.addr":                      ":8080",
		"http.web_dir":                   "web",
		"http.deep_link_route":           "/log",
		"store.driver":                   "sqlite",
		"store.dsn":                      "",
		"store.sqlite_path":              "moodtrack.db",
		"log.level":                      "info",
		"log.format":                     "json",
		"timezone":                       "Local",
		"platform.api_level":             34,
		"platform.exact_alarms_granted":  true,
		"platform.notifications_granted": true,
		"platform.fine_location":         false,
		"platform.coarse_location":       true,
		"platform.battery_low":           false,
		"platform.network_connected":     true,
		"location.enabled":               false,
		"location.latitude":              0.0,
		"location.longitude":             0.0,
		"location.accuracy_meters":       100.0,
		"jobs.min_period":                "15m",
		"jobs.execution_budget":          "10m",
	}
}

// Load reads configuration. A missing file at path is not an error; an empty
// path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	// MOODTRACK_STORE_SQLITE_PATH -> store.sqlite_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		section, field, ok := strings.Cut(lower, "_")
		if !ok {
			return lower
		}
		return section + "." + field
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q (supported: memory, sqlite, postgres)", c.Store.Driver)
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	if c.Jobs.MinPeriod <= 0 {
		return fmt.Errorf("jobs.min_period must be positive")
	}
	return nil
}

// TimeLocation resolves the configured timezone.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

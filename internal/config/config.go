// Package config wraps viper behind a small, nil-safe accessor type and
// owns the service's configuration defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is a nil-safe view over a viper instance. A Config around a nil
// viper returns zero values from every accessor, which keeps optional
// sub-sections (Sub of a missing key) safe to use.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load reads configuration from the given YAML file (optional; empty path
// skips the file), environment variables prefixed SEATMAP_, and built-in
// defaults, in that precedence order.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("store.path", "seatmap.db")
	v.SetDefault("feed.surveys_url", "")
	v.SetDefault("feed.locations_url", "")
	v.SetDefault("feed.requests_per_second", 1.0)
	v.SetDefault("refresh.interval", "2m")

	v.SetEnvPrefix("SEATMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return New(v), nil
}

// GetString returns the string value for key, or "" when unset.
func (c *Config) GetString(key string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// GetInt returns the int value for key, or 0 when unset.
func (c *Config) GetInt(key string) int {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

// GetFloat64 returns the float value for key, or 0 when unset.
func (c *Config) GetFloat64(key string) float64 {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetFloat64(key)
}

// GetBool returns the bool value for key, or false when unset.
func (c *Config) GetBool(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

// GetDuration returns the duration value for key, or 0 when unset.
func (c *Config) GetDuration(key string) time.Duration {
	if c == nil || c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

// IsSet reports whether key has a value from any source.
func (c *Config) IsSet(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the configuration subtree under key. Never returns nil; a
// missing subtree yields an empty Config.
func (c *Config) Sub(key string) *Config {
	if c == nil || c.v == nil {
		return New(nil)
	}
	return New(c.v.Sub(key))
}

// Unmarshal decodes the configuration into target via mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	if c == nil || c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}

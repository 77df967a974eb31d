// Package config holds the engine configuration consumed at load time:
// enable flag, default screen code, retry timing, pattern file paths, and
// the per-URL screen-code mapping.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

const (
	DefaultRetryTimeout  = 30 * time.Second
	DefaultRetryInterval = 500 * time.Millisecond
)

// Config is the engine configuration. File values are overridden by
// FIELDMARK_* environment variables; both are read once at startup and
// the result is read-only afterwards.
type Config struct {
	Enabled       bool              `yaml:"enabled"`
	DefaultScreen string            `yaml:"default_screen"`
	RetryTimeout  string            `yaml:"retry_timeout"`
	RetryInterval string            `yaml:"retry_interval"`
	PatternPaths  []string          `yaml:"pattern_paths"`
	ScreenURLs    map[string]string `yaml:"screen_urls"`
	Vars          map[string]string `yaml:"vars"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Enabled:       true,
		RetryTimeout:  DefaultRetryTimeout.String(),
		RetryInterval: DefaultRetryInterval.String(),
		ScreenURLs:    map[string]string{},
		Vars:          map[string]string{},
	}
}

// Load reads the configuration file at path (empty path means defaults
// only) and applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if _, err := cfg.retryTimeout(); err != nil {
		return nil, err
	}
	if _, err := cfg.retryInterval(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment overrides take precedence over file defaults.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FIELDMARK_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv("FIELDMARK_DEFAULT_SCREEN"); v != "" {
		c.DefaultScreen = v
	}
	if v := os.Getenv("FIELDMARK_RETRY_TIMEOUT"); v != "" {
		c.RetryTimeout = v
	}
	if v := os.Getenv("FIELDMARK_RETRY_INTERVAL"); v != "" {
		c.RetryInterval = v
	}
}

// GetRetryTimeout returns the overall resolution timeout.
func (c *Config) GetRetryTimeout() time.Duration {
	d, err := c.retryTimeout()
	if err != nil {
		return DefaultRetryTimeout
	}
	return d
}

// GetRetryInterval returns the wait between scroll-retry iterations.
func (c *Config) GetRetryInterval() time.Duration {
	d, err := c.retryInterval()
	if err != nil {
		return DefaultRetryInterval
	}
	return d
}

func (c *Config) retryTimeout() (time.Duration, error) {
	if c.RetryTimeout == "" {
		return DefaultRetryTimeout, nil
	}
	d, err := time.ParseDuration(c.RetryTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid retry_timeout %q: %w", c.RetryTimeout, err)
	}
	return d, nil
}

func (c *Config) retryInterval() (time.Duration, error) {
	if c.RetryInterval == "" {
		return DefaultRetryInterval, nil
	}
	d, err := time.ParseDuration(c.RetryInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid retry_interval %q: %w", c.RetryInterval, err)
	}
	return d, nil
}

// ScreenForURL maps a page URL to a screen code using the configured
// screen_urls fragments. The longest matching fragment wins so more
// specific mappings shadow broader ones. Returns the empty string when
// nothing matches.
func (c *Config) ScreenForURL(url string) string {
	type match struct {
		fragment string
		screen   string
	}
	var matches []match
	for fragment, screen := range c.ScreenURLs {
		if fragment != "" && strings.Contains(url, fragment) {
			matches = append(matches, match{fragment, screen})
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i].fragment) != len(matches[j].fragment) {
			return len(matches[i].fragment) > len(matches[j].fragment)
		}
		return matches[i].fragment < matches[j].fragment
	})
	return matches[0].screen
}

// Bind writes the configuration's template variables into the store under
// the config.* tier so selector templates can reference them.
func (c *Config) Bind(store *vars.Store) {
	for key, value := range c.Vars {
		store.Set("config."+key, value)
	}
}

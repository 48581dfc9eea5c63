package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/zamazon/internal/logging"
)

// Config holds runtime settings for the zamazon client.
//
// Fields:
//   - BackendURL: base URL of the marketplace HTTP API.
//   - StateDBPath: SQLite file holding the session flag and cookies.
//   - RequestTimeout: per request deadline.
//   - RequestsPerSecond, Burst: outbound rate limit; 0 means unlimited.
//   - ReconcileUnauthorized: any 401 from the backend signs the session out.
type Config struct {
	BackendURL            string
	StateDBPath           string
	RequestTimeout        time.Duration
	RequestsPerSecond     float64
	Burst                 int
	LogLevel              string
	LogFormat             string
	NoColor               bool
	ReconcileUnauthorized bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:8080"
	c.StateDBPath = "zamazon.db"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 0
	c.Burst = 1
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.NoColor = false
	c.ReconcileUnauthorized = false
}

// Validate reports the first setting the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend url %q must be an absolute http(s) URL", c.BackendURL)
	}
	if c.StateDBPath == "" {
		return errors.New("state db path is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative, got %v", c.RequestsPerSecond)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Load builds a Config by applying defaults, the config file named by the
// "config" flag, then every flag in fs that was set explicitly.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if f := fs.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
		if err := LoadFile(f.Value.String(), cfg); err != nil {
			return nil, err
		}
	}
	if err := ApplyFlags(fs, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

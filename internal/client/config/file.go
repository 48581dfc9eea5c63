package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/zamazon/internal/timex"
)

// fileConfig is a DTO used only for decoding config files. Pointer fields
// tell an absent key from a zero value.
type fileConfig struct {
	BackendURL            *string         `json:"backend_url" yaml:"backend_url"`
	StateDBPath           *string         `json:"state_db" yaml:"state_db"`
	RequestTimeout        *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond     *float64        `json:"requests_per_second" yaml:"requests_per_second"`
	Burst                 *int            `json:"burst" yaml:"burst"`
	LogLevel              *string         `json:"log_level" yaml:"log_level"`
	LogFormat             *string         `json:"log_format" yaml:"log_format"`
	NoColor               *bool           `json:"no_color" yaml:"no_color"`
	ReconcileUnauthorized *bool           `json:"reconcile_unauthorized" yaml:"reconcile_unauthorized"`
}

// LoadFile overlays cfg with the keys present in the file at path.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	set(&cfg.BackendURL, fc.BackendURL)
	set(&cfg.StateDBPath, fc.StateDBPath)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	set(&cfg.RequestsPerSecond, fc.RequestsPerSecond)
	set(&cfg.Burst, fc.Burst)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.NoColor, fc.NoColor)
	set(&cfg.ReconcileUnauthorized, fc.ReconcileUnauthorized)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

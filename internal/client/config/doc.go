// Package config loads runtime configuration for the zamazon client.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file given by --config/-c. Files ending in .yaml or
//     .yml are read as YAML, anything else as JSON.
//  3. Command-line flags that were set explicitly, which override earlier
//     values.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds. Keys that are absent keep their earlier value:
//
//	backend_url: http://localhost:8080
//	state_db: zamazon.db
//	request_timeout: 10s
//	requests_per_second: 5
//	burst: 2
//	log_level: debug
//	log_format: json
//	no_color: true
//	reconcile_unauthorized: false
package config

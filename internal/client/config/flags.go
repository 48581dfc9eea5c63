package config

import (
	"github.com/spf13/pflag"
)

const (
	FlagConfig    = "config"
	FlagBackend   = "backend"
	FlagStateDB   = "state-db"
	FlagTimeout   = "timeout"
	FlagRPS       = "rps"
	FlagBurst     = "burst"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagNoColor   = "no-color"
	FlagReconcile = "reconcile-unauthorized"
)

// RegisterFlags defines the config flags on fs, with the defaults as their
// default values.
//
//	-c, --config string           config file (JSON or YAML)
//	-a, --backend string          backend base URL
//	    --state-db string         local state database
//	    --timeout duration        per request timeout
//	    --rps float               outbound requests per second (0 = unlimited)
//	    --burst int               outbound burst size
//	    --log-level string        debug, info, warn or error
//	    --log-format string       text or json
//	    --no-color                disable colored output
//	    --reconcile-unauthorized  sign out locally on any 401
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "config file (JSON or YAML)")
	fs.StringP(FlagBackend, "a", d.BackendURL, "backend base URL")
	fs.String(FlagStateDB, d.StateDBPath, "local state database")
	fs.Duration(FlagTimeout, d.RequestTimeout, "per request timeout")
	fs.Float64(FlagRPS, d.RequestsPerSecond, "outbound requests per second (0 = unlimited)")
	fs.Int(FlagBurst, d.Burst, "outbound burst size")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.String(FlagLogFormat, d.LogFormat, "log format: text or json")
	fs.Bool(FlagNoColor, d.NoColor, "disable colored output")
	fs.Bool(FlagReconcile, d.ReconcileUnauthorized, "sign out locally when the backend answers 401")
}

// ApplyFlags copies the flags that were set explicitly into cfg. Flags left
// at their default do not override values loaded from a file.
func ApplyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagBackend:
			cfg.BackendURL, err = fs.GetString(f.Name)
		case FlagStateDB:
			cfg.StateDBPath, err = fs.GetString(f.Name)
		case FlagTimeout:
			cfg.RequestTimeout, err = fs.GetDuration(f.Name)
		case FlagRPS:
			cfg.RequestsPerSecond, err = fs.GetFloat64(f.Name)
		case FlagBurst:
			cfg.Burst, err = fs.GetInt(f.Name)
		case FlagLogLevel:
			cfg.LogLevel, err = fs.GetString(f.Name)
		case FlagLogFormat:
			cfg.LogFormat, err = fs.GetString(f.Name)
		case FlagNoColor:
			cfg.NoColor, err = fs.GetBool(f.Name)
		case FlagReconcile:
			cfg.ReconcileUnauthorized, err = fs.GetBool(f.Name)
		}
	})
	return err
}

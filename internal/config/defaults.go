package config

import (
	"github.com/sfcc-studio/scriptdebug/internal/constants"
)

// DefaultConfig returns a config with sensible defaults.
// Server credentials are left empty; they come from the config file, dw.json or env.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Server: ServerConfig{
			Scheme:      "https",
			HTTPTimeout: constants.DefaultHTTPTimeout,
		},
		Debugger: DebuggerConfig{
			SourceRoot:        constants.DefaultSourceRoot,
			OperationTimeout:  constants.DefaultOperationTimeout,
			ConnectTimeout:    constants.DefaultConnectTimeout,
			PollInterval:      constants.DefaultPollInterval,
			KeepAliveInterval: constants.DefaultKeepAliveInterval,
			MaxInFlight:       constants.DefaultMaxInFlight,
			MaxPollFailures:   constants.DefaultMaxPollFailures,
		},
		Connect: ConnectConfig{
			Retry: RetryConfig{
				MaxAttempts:    constants.DefaultConnectMaxAttempts,
				InitialBackoff: constants.DefaultConnectInitialBackoff,
				MaxBackoff:     constants.DefaultConnectMaxBackoff,
				Jitter:         0.1,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

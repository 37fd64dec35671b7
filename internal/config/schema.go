// Package config provides configuration loading and management.
package config

import "time"

// SchemaVersion is the current config file schema version.
const SchemaVersion = "1"

// Config is the scriptdebug configuration.
// Stored at ~/.scriptdebug/config.yaml unless overridden with --config.
type Config struct {
	Version  string         `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Debugger DebuggerConfig `yaml:"debugger"`
	Connect  ConnectConfig  `yaml:"connect"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the application server exposing the Script Debugger API.
type ServerConfig struct {
	// Hostname of the instance, e.g. dev01-realm-customer.demandware.net.
	Hostname string `yaml:"hostname" env:"HOSTNAME"`

	// Scheme is "https" for real instances; "http" is accepted for local stubs.
	Scheme string `yaml:"scheme" env:"SCHEME"`

	// Username and Password are the Business Manager credentials used for basic auth.
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`

	// ClientID identifies this debugger client to the server (x-dw-client-id).
	// Generated when empty.
	ClientID string `yaml:"client_id" env:"CLIENT_ID"`

	// HTTPTimeout is the transport-level timeout of every request.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT"`
}

// DebuggerConfig tunes the debugger session.
type DebuggerConfig struct {
	// SourceRoot is the local directory script paths are relative to.
	SourceRoot string `yaml:"source_root" env:"SOURCE_ROOT"`

	// OperationTimeout bounds each breakpoint, resume and poll call.
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"OPERATION_TIMEOUT"`

	// ConnectTimeout bounds the handshake.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`

	// PollInterval is how often halted threads are fetched while connected.
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`

	// KeepAliveInterval is how often the client is kept alive while connected.
	KeepAliveInterval time.Duration `yaml:"keepalive_interval" env:"KEEPALIVE_INTERVAL"`

	// MaxInFlight caps concurrent breakpoint calls, and separately concurrent resume calls.
	MaxInFlight int `yaml:"max_in_flight" env:"MAX_IN_FLIGHT"`

	// MaxPollFailures is the number of consecutive failed polls that drops the connection.
	MaxPollFailures int `yaml:"max_poll_failures" env:"MAX_POLL_FAILURES"`
}

// ConnectConfig controls how the CLI establishes a session.
type ConnectConfig struct {
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig is the caller-side retry policy for the handshake.
// MaxAttempts of 1 disables retries.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" env:"CONNECT_MAX_ATTEMPTS"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"CONNECT_INITIAL_BACKOFF"`
	MaxBackoff     time.Duration `yaml:"max_backoff" env:"CONNECT_MAX_BACKOFF"`
	Jitter         float64       `yaml:"jitter" env:"CONNECT_JITTER"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
}

// DwJSON mirrors the dw.json project descriptor used by commerce-platform tooling.
// Only the fields relevant to debugging are read.
type DwJSON struct {
	Hostname    string `yaml:"hostname"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	CodeVersion string `yaml:"code-version"`
	ClientID    string `yaml:"client-id"`
}

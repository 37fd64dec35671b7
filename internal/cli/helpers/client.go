package helpers

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/sfcc-studio/scriptdebug/internal/config"
	"github.com/sfcc-studio/scriptdebug/internal/debugger"
	"github.com/sfcc-studio/scriptdebug/internal/logging"
	"github.com/sfcc-studio/scriptdebug/internal/retry"
	"github.com/sfcc-studio/scriptdebug/internal/sdapi"
)

// Shared setup for commands that talk to an instance.
//
// Configuration priority (highest first):
//  1. Command-line flags (--log-level)
//  2. SCRIPTDEBUG_* environment variables
//  3. dw.json in the project directory
//  4. Config file (~/.scriptdebug/config.yaml or --config)
//  5. Built-in defaults

// LoadConfig loads the layered configuration and applies flag overrides. The result is
// not validated; commands that contact a server call Validate themselves.
func LoadConfig(flags *GlobalFlags) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(flags.ConfigPath, flags.ProjectDir)
	if err != nil {
		return nil, err
	}

	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	return cfg, nil
}

// NewLogger builds the process logger from the logging section. Logs go to w, which is
// stderr for every command so stdout stays with the console. Pretty output is only used
// when w is a terminal; redirected logs are written as JSON lines.
func NewLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	pretty := cfg.Logging.Pretty
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		pretty = false
	}

	return logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: pretty,
		Output: w,
	})
}

// NewDebuggerClient validates the server settings and builds the API client.
func NewDebuggerClient(cfg *config.Config, logger zerolog.Logger) (*sdapi.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return sdapi.NewClient(sdapi.Config{
		Hostname:    cfg.Server.Hostname,
		Scheme:      cfg.Server.Scheme,
		Username:    cfg.Server.Username,
		Password:    cfg.Server.Password,
		ClientID:    cfg.Server.ClientID,
		HTTPTimeout: cfg.Server.HTTPTimeout,
	}, logger), nil
}

// SessionConfig maps the debugger section onto a session configuration.
func SessionConfig(cfg *config.Config) debugger.Config {
	return debugger.Config{
		OperationTimeout:  cfg.Debugger.OperationTimeout,
		ConnectTimeout:    cfg.Debugger.ConnectTimeout,
		PollInterval:      cfg.Debugger.PollInterval,
		KeepAliveInterval: cfg.Debugger.KeepAliveInterval,
		MaxInFlight:       int64(cfg.Debugger.MaxInFlight),
		MaxPollFailures:   cfg.Debugger.MaxPollFailures,
	}
}

// ConnectRetry maps the connect.retry section onto a retry policy.
func ConnectRetry(cfg *config.Config) retry.Config {
	return retry.Config{
		MaxAttempts:    cfg.Connect.Retry.MaxAttempts,
		InitialBackoff: cfg.Connect.Retry.InitialBackoff,
		MaxBackoff:     cfg.Connect.Retry.MaxBackoff,
		Jitter:         cfg.Connect.Retry.Jitter,
	}
}

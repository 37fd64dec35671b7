package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Server.Hostname = "dev01-realm-customer.demandware.net"
	cfg.Server.Username = "admin"
	cfg.Server.Password = "secret"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing version",
			mutate:  func(c *Config) { c.Version = "" },
			wantErr: true,
			errMsg:  "version is required",
		},
		{
			name:    "missing hostname",
			mutate:  func(c *Config) { c.Server.Hostname = "" },
			wantErr: true,
			errMsg:  "hostname is required",
		},
		{
			name:    "hostname with scheme",
			mutate:  func(c *Config) { c.Server.Hostname = "https://example.com" },
			wantErr: true,
			errMsg:  "must not include a scheme",
		},
		{
			name:    "invalid scheme",
			mutate:  func(c *Config) { c.Server.Scheme = "ftp" },
			wantErr: true,
			errMsg:  "scheme must be",
		},
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.Server.Password = "" },
			wantErr: true,
			errMsg:  "password is required",
		},
		{
			name:    "zero operation timeout",
			mutate:  func(c *Config) { c.Debugger.OperationTimeout = 0 },
			wantErr: true,
			errMsg:  "debugger.operation_timeout",
		},
		{
			name:    "zero max in flight",
			mutate:  func(c *Config) { c.Debugger.MaxInFlight = 0 },
			wantErr: true,
			errMsg:  "debugger.max_in_flight",
		},
		{
			name: "retries without backoff",
			mutate: func(c *Config) {
				c.Connect.Retry.MaxAttempts = 3
				c.Connect.Retry.InitialBackoff = 0
			},
			wantErr: true,
			errMsg:  "initial_backoff",
		},
		{
			name:    "jitter out of range",
			mutate:  func(c *Config) { c.Connect.Retry.Jitter = 1.5 },
			wantErr: true,
			errMsg:  "between 0.0 and 1.0",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
			errMsg:  "unknown level",
		},
		{
			name: "retries with backoff",
			mutate: func(c *Config) {
				c.Connect.Retry.MaxAttempts = 5
				c.Connect.Retry.InitialBackoff = 100 * time.Millisecond
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for config without server settings")
	}

	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("Validate() error type = %T, want *MultiValidationError", err)
	}

	// hostname, username, password
	if len(multi.Errors) != 3 {
		t.Errorf("len(Errors) = %d, want 3: %v", len(multi.Errors), multi.Errors)
	}
	if !strings.Contains(err.Error(), "validation failed with 3 errors") {
		t.Errorf("Error() = %q, want summary header", err.Error())
	}
}

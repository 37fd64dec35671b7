package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCRIPTDEBUG_HOSTNAME", "staging.example.com")
	t.Setenv("SCRIPTDEBUG_USERNAME", "env-user")
	t.Setenv("SCRIPTDEBUG_OPERATION_TIMEOUT", "3s")
	t.Setenv("SCRIPTDEBUG_MAX_IN_FLIGHT", "2")
	t.Setenv("SCRIPTDEBUG_LOG_PRETTY", "false")
	t.Setenv("SCRIPTDEBUG_CONNECT_JITTER", "0.25")

	cfg := DefaultConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Server.Hostname != "staging.example.com" {
		t.Errorf("Server.Hostname = %q, want %q", cfg.Server.Hostname, "staging.example.com")
	}
	if cfg.Server.Username != "env-user" {
		t.Errorf("Server.Username = %q, want %q", cfg.Server.Username, "env-user")
	}
	if cfg.Debugger.OperationTimeout != 3*time.Second {
		t.Errorf("Debugger.OperationTimeout = %v, want 3s", cfg.Debugger.OperationTimeout)
	}
	if cfg.Debugger.MaxInFlight != 2 {
		t.Errorf("Debugger.MaxInFlight = %d, want 2", cfg.Debugger.MaxInFlight)
	}
	if cfg.Logging.Pretty {
		t.Error("Logging.Pretty = true, want false")
	}
	if cfg.Connect.Retry.Jitter != 0.25 {
		t.Errorf("Connect.Retry.Jitter = %f, want 0.25", cfg.Connect.Retry.Jitter)
	}
}

func TestLoadFromEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	want := cfg.Debugger

	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Debugger != want {
		t.Errorf("Debugger = %+v, want %+v", cfg.Debugger, want)
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
		errMsg string
	}{
		{"invalid duration", "SCRIPTDEBUG_POLL_INTERVAL", "soon", "invalid duration"},
		{"invalid integer", "SCRIPTDEBUG_MAX_POLL_FAILURES", "many", "invalid integer"},
		{"invalid boolean", "SCRIPTDEBUG_LOG_PRETTY", "perhaps", "invalid boolean"},
		{"invalid float", "SCRIPTDEBUG_CONNECT_JITTER", "lots", "invalid float"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := LoadFromEnv(DefaultConfig())
			if err == nil {
				t.Fatal("LoadFromEnv() expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) || !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("LoadFromEnv() error = %q, want %q naming %s", err.Error(), tt.errMsg, tt.envVar)
			}
		})
	}
}

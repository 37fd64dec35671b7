package config

import (
	"fmt"
	"strings"
)

// Validator is the interface for validating configuration.
type Validator interface {
	Validate() error
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError represents multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("validation failed with %d errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		builder.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

// Validate validates Config.
func (c *Config) Validate() error {
	var errors []ValidationError

	if c.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: "version is required",
		})
	}

	errors = append(errors, c.Server.validate()...)
	errors = append(errors, c.Debugger.validate()...)

	if c.Connect.Retry.MaxAttempts < 1 {
		errors = append(errors, ValidationError{
			Field:   "connect.retry.max_attempts",
			Message: "must be at least 1",
		})
	}
	if c.Connect.Retry.MaxAttempts > 1 && c.Connect.Retry.InitialBackoff <= 0 {
		errors = append(errors, ValidationError{
			Field:   "connect.retry.initial_backoff",
			Message: "must be positive when retries are enabled",
		})
	}
	if c.Connect.Retry.Jitter < 0 || c.Connect.Retry.Jitter > 1 {
		errors = append(errors, ValidationError{
			Field:   "connect.retry.jitter",
			Message: "must be between 0.0 and 1.0",
		})
	}

	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
		})
	}

	if len(errors) > 0 {
		return &MultiValidationError{Errors: errors}
	}

	return nil
}

func (s ServerConfig) validate() []ValidationError {
	var errors []ValidationError

	if s.Hostname == "" {
		errors = append(errors, ValidationError{
			Field:   "server.hostname",
			Message: "hostname is required",
		})
	} else if strings.Contains(s.Hostname, "://") || strings.Contains(s.Hostname, "/") {
		errors = append(errors, ValidationError{
			Field:   "server.hostname",
			Message: "hostname must not include a scheme or path",
		})
	}

	if s.Scheme != "https" && s.Scheme != "http" {
		errors = append(errors, ValidationError{
			Field:   "server.scheme",
			Message: "scheme must be 'https' or 'http'",
		})
	}

	if s.Username == "" {
		errors = append(errors, ValidationError{
			Field:   "server.username",
			Message: "username is required",
		})
	}

	if s.Password == "" {
		errors = append(errors, ValidationError{
			Field:   "server.password",
			Message: "password is required",
		})
	}

	if s.HTTPTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.http_timeout",
			Message: "must not be negative",
		})
	}

	return errors
}

func (d DebuggerConfig) validate() []ValidationError {
	var errors []ValidationError

	positive := map[string]bool{
		"debugger.operation_timeout":  d.OperationTimeout > 0,
		"debugger.connect_timeout":    d.ConnectTimeout > 0,
		"debugger.poll_interval":      d.PollInterval > 0,
		"debugger.keepalive_interval": d.KeepAliveInterval > 0,
		"debugger.max_in_flight":      d.MaxInFlight > 0,
		"debugger.max_poll_failures":  d.MaxPollFailures > 0,
	}
	for _, field := range []string{
		"debugger.operation_timeout",
		"debugger.connect_timeout",
		"debugger.poll_interval",
		"debugger.keepalive_interval",
		"debugger.max_in_flight",
		"debugger.max_poll_failures",
	} {
		if !positive[field] {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "must be positive",
			})
		}
	}

	return errors
}

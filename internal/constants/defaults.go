package constants

import "time"

// Timeouts - Default timeout values.
const (
	// DefaultOperationTimeout bounds a single debugger API call (create, delete, resume, poll).
	DefaultOperationTimeout = 10 * time.Second

	// DefaultConnectTimeout bounds the debugger client handshake.
	DefaultConnectTimeout = 15 * time.Second

	// DefaultHTTPTimeout is the transport-level timeout of the HTTP client.
	DefaultHTTPTimeout = 30 * time.Second
)

// Intervals - Default interval values.
const (
	// DefaultPollInterval is how often halted threads are polled while connected.
	DefaultPollInterval = 1 * time.Second

	// DefaultKeepAliveInterval is how often the debugger client is kept alive.
	// The server drops clients that stay silent for 60 seconds.
	DefaultKeepAliveInterval = 30 * time.Second

	// MetricsReportInterval is how often session counters are flushed to the debug log.
	MetricsReportInterval = 10 * time.Second
)

// Limits - Default limits.
const (
	// DefaultMaxInFlight caps concurrently dispatched debugger API calls.
	DefaultMaxInFlight = 8

	// DefaultMaxPollFailures is the number of consecutive failed polls after which the
	// connection is considered lost.
	DefaultMaxPollFailures = 3
)

// Retry - Default caller-side connect retry.
const (
	DefaultConnectMaxAttempts = 1

	DefaultConnectInitialBackoff = 500 * time.Millisecond

	DefaultConnectMaxBackoff = 10 * time.Second
)

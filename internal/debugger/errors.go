package debugger

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrSessionClosed is returned by host operations after Close.
	ErrSessionClosed = errors.New("debug session closed")

	// ErrConnectInProgress is returned by Connect while a handshake is already running.
	ErrConnectInProgress = errors.New("connect already in progress")

	// ErrConnectAborted is returned by Connect when Disconnect ran before the handshake finished.
	ErrConnectAborted = errors.New("connect aborted by disconnect")

	// ErrInvalidKey is returned for breakpoint keys without a path or with a negative line.
	ErrInvalidKey = errors.New("invalid breakpoint key")
)

// ConnectionError reports a failed handshake, a failed disconnect, or a connection
// declared lost by the thread watcher. The session is Disconnected afterwards.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SyncError reports a breakpoint create or delete call that failed after dispatch.
// The breakpoint has been returned to its state before the request.
type SyncError struct {
	Key Key
	Op  Op
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s breakpoint %s: %v", e.Op, e.Key, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// DesyncError reports a resume that does not match the execution state held by the
// session, or one the server refused. Local execution state is left untouched.
type DesyncError struct {
	ThreadID int
	Reason   string
	Err      error
}

func (e *DesyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("thread %d: %s: %v", e.ThreadID, e.Reason, e.Err)
	}
	return fmt.Sprintf("thread %d: %s", e.ThreadID, e.Reason)
}

func (e *DesyncError) Unwrap() error {
	return e.Err
}

// TransportError marks a network or timeout failure of an in-flight call. It is always
// found inside one of the errors above.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// classify wraps network and deadline failures in a TransportError and returns any other
// error unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return &TransportError{Op: op, Err: err}
	}

	return err
}

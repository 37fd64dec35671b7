package debugger

// ConnectionState represents the session's connection to the remote debugger.
type ConnectionState int

const (
	// StateDisconnected indicates there is no debugger client on the server.
	StateDisconnected ConnectionState = iota
	// StateConnecting indicates the handshake is in flight.
	StateConnecting
	// StateConnected indicates the handshake succeeded and remote ids are valid.
	StateConnected
)

// String returns a human-readable representation of the connection state.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// stateMachine tracks the connection state and the epoch of the current connection.
// Every connect attempt and every disconnect starts a new epoch, so a reply tagged with
// an older epoch belongs to a server client that no longer exists.
type stateMachine struct {
	state ConnectionState
	epoch uint64
}

// begin moves Disconnected to Connecting and returns the new epoch.
func (m *stateMachine) begin() (uint64, bool) {
	if m.state != StateDisconnected {
		return 0, false
	}
	m.state = StateConnecting
	m.epoch++
	return m.epoch, true
}

// establish moves Connecting to Connected if epoch is still the running attempt.
func (m *stateMachine) establish(epoch uint64) bool {
	if m.state != StateConnecting || m.epoch != epoch {
		return false
	}
	m.state = StateConnected
	return true
}

// reset moves any state to Disconnected and returns the previous state.
func (m *stateMachine) reset() ConnectionState {
	prev := m.state
	if prev != StateDisconnected {
		m.state = StateDisconnected
		m.epoch++
	}
	return prev
}

// pending reports whether epoch is the connect attempt still in flight.
func (m *stateMachine) pending(epoch uint64) bool {
	return m.state == StateConnecting && m.epoch == epoch
}

// current reports whether epoch is the live connection.
func (m *stateMachine) current(epoch uint64) bool {
	return m.state == StateConnected && m.epoch == epoch
}

package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionState_String(t *testing.T) {
	tests := []struct {
		state ConnectionState
		want  string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{ConnectionState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestStateMachine_Lifecycle(t *testing.T) {
	var m stateMachine

	epoch, ok := m.begin()
	require.True(t, ok)
	assert.Equal(t, StateConnecting, m.state)
	assert.True(t, m.pending(epoch))
	assert.False(t, m.current(epoch))

	_, ok = m.begin()
	assert.False(t, ok, "begin while connecting")

	require.True(t, m.establish(epoch))
	assert.Equal(t, StateConnected, m.state)
	assert.True(t, m.current(epoch))

	assert.Equal(t, StateConnected, m.reset())
	assert.Equal(t, StateDisconnected, m.state)
	assert.False(t, m.current(epoch), "replies from the old connection are stale")

	assert.Equal(t, StateDisconnected, m.reset())
}

func TestStateMachine_EstablishAfterReset(t *testing.T) {
	var m stateMachine

	epoch, _ := m.begin()
	m.reset()

	assert.False(t, m.establish(epoch))
	assert.Equal(t, StateDisconnected, m.state)

	next, ok := m.begin()
	require.True(t, ok)
	assert.Greater(t, next, epoch)
	assert.False(t, m.establish(epoch))
	assert.True(t, m.establish(next))
}

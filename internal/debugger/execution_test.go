package debugger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFrames = []Frame{
	{Index: 0, Function: "show()", Path: "/app/controller.js", Line: 10},
	{Index: 1, Function: "handle()", Path: "/app/router.js", Line: 77},
}

func TestExecutionController_Suspend(t *testing.T) {
	c := NewExecutionController()

	stack, changed := c.Suspend(7, testFrames)
	require.True(t, changed)
	assert.Equal(t, 7, stack.ThreadID)

	top, ok := stack.Top()
	require.True(t, ok)
	assert.Equal(t, "show()", top.Function)

	_, changed = c.Suspend(7, testFrames)
	assert.False(t, changed, "unchanged stack is not reported twice")

	_, changed = c.Suspend(7, testFrames[1:])
	assert.True(t, changed)
}

func TestExecutionController_SuspendCopiesFrames(t *testing.T) {
	c := NewExecutionController()
	frames := append([]Frame(nil), testFrames...)

	c.Suspend(7, frames)
	frames[0].Function = "mutated"

	held, ok := c.Stack(7)
	require.True(t, ok)
	assert.Equal(t, "show()", held.Frames[0].Function)
}

func TestExecutionController_ResumeUnknownThread(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(7, testFrames)

	err := c.BeginResume(42)
	var desync *DesyncError
	require.ErrorAs(t, err, &desync)
	assert.Equal(t, 42, desync.ThreadID)

	assert.Len(t, c.Stacks(), 1)
	_, ok := c.Stack(7)
	assert.True(t, ok)
}

func TestExecutionController_Resume(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(7, testFrames)

	require.NoError(t, c.BeginResume(7))
	assert.Error(t, c.BeginResume(7), "second resume while one is in flight")

	assert.True(t, c.FinishResume(7, nil))
	assert.Empty(t, c.Stacks())
	assert.Error(t, c.BeginResume(7))
}

func TestExecutionController_ResumeFailureKeepsStack(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(7, testFrames)

	require.NoError(t, c.BeginResume(7))
	assert.False(t, c.FinishResume(7, errors.New("rejected")))

	_, ok := c.Stack(7)
	assert.True(t, ok)
	assert.NoError(t, c.BeginResume(7), "resume can be retried by the host")
}

func TestExecutionController_MultipleThreads(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(9, testFrames)
	c.Suspend(7, testFrames)

	stacks := c.Stacks()
	require.Len(t, stacks, 2)
	assert.Equal(t, 7, stacks[0].ThreadID)
	assert.Equal(t, 9, stacks[1].ThreadID)

	require.NoError(t, c.BeginResume(9))
	c.FinishResume(9, nil)

	_, ok := c.Stack(7)
	assert.True(t, ok)
}

func TestExecutionController_Reconcile(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(7, testFrames)
	c.Suspend(8, testFrames)
	c.Suspend(9, testFrames)
	require.NoError(t, c.BeginResume(9))

	gone := c.Reconcile(map[int]bool{8: true}, c.Generation())
	assert.Equal(t, []int{7}, gone)

	_, ok := c.Stack(9)
	assert.True(t, ok, "thread with a resume in flight is left alone")
}

func TestExecutionController_ObserveIgnoresSnapshotOlderThanResume(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(7, testFrames)

	since := c.Generation()
	require.NoError(t, c.BeginResume(7))
	require.True(t, c.FinishResume(7, nil))

	_, changed := c.Observe(7, testFrames, since)
	assert.False(t, changed, "snapshot listed the thread before it was resumed")
	assert.Empty(t, c.Stacks())

	assert.Empty(t, c.Reconcile(map[int]bool{7: true}, since))

	_, changed = c.Observe(7, testFrames, c.Generation())
	assert.True(t, changed, "a snapshot taken after the resume is a new stop")
}

func TestExecutionController_ReconcilePrunesResumeHistory(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(7, testFrames)
	require.NoError(t, c.BeginResume(7))
	require.True(t, c.FinishResume(7, nil))

	c.Reconcile(map[int]bool{}, c.Generation())
	assert.Empty(t, c.resumedAt)
}

func TestExecutionController_ReconcileKeepsSuspendNewerThanSnapshot(t *testing.T) {
	c := NewExecutionController()

	since := c.Generation()
	c.Suspend(7, testFrames)

	assert.Empty(t, c.Reconcile(map[int]bool{}, since))
	_, ok := c.Stack(7)
	assert.True(t, ok)

	assert.Equal(t, []int{7}, c.Reconcile(map[int]bool{}, c.Generation()))
	assert.Empty(t, c.suspendedAt)
}

func TestExecutionController_Clear(t *testing.T) {
	c := NewExecutionController()
	c.Suspend(8, testFrames)
	c.Suspend(7, testFrames)
	require.NoError(t, c.BeginResume(7))

	assert.Equal(t, []int{7, 8}, c.Clear())
	assert.Empty(t, c.Stacks())
	assert.False(t, c.FinishResume(7, nil))
}

func TestExecutionStack_TopEmpty(t *testing.T) {
	_, ok := ExecutionStack{ThreadID: 1}.Top()
	assert.False(t, ok)
}

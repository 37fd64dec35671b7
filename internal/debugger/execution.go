package debugger

import "sort"

// Frame is one entry of a halted thread's call stack. Line is 0-based like Key.Line.
type Frame struct {
	Index    int
	Function string
	Path     string
	Line     int
}

// Thread is a script thread as reported by the server.
type Thread struct {
	ID     int
	Halted bool
	Frames []Frame
}

// ExecutionStack is the call stack of one suspended thread.
type ExecutionStack struct {
	ThreadID int
	Frames   []Frame
}

// Top returns the innermost frame.
func (s ExecutionStack) Top() (Frame, bool) {
	if len(s.Frames) == 0 {
		return Frame{}, false
	}
	return s.Frames[0], true
}

func (s ExecutionStack) clone() ExecutionStack {
	return ExecutionStack{ThreadID: s.ThreadID, Frames: append([]Frame(nil), s.Frames...)}
}

// ExecutionController tracks one ExecutionStack per suspended thread. Like Synchronizer it
// performs no I/O and relies on the session for serialization.
type ExecutionController struct {
	stacks   map[int]ExecutionStack
	resuming map[int]bool

	// generation counts successful resumes and pushed suspends. resumedAt and
	// suspendedAt hold the generation of each thread's last such event, until no older
	// thread snapshot can still arrive.
	generation  uint64
	resumedAt   map[int]uint64
	suspendedAt map[int]uint64
}

// NewExecutionController creates a controller with no suspended threads.
func NewExecutionController() *ExecutionController {
	return &ExecutionController{
		stacks:      make(map[int]ExecutionStack),
		resuming:    make(map[int]bool),
		resumedAt:   make(map[int]uint64),
		suspendedAt: make(map[int]uint64),
	}
}

// Generation identifies the current generation. Take it before requesting a
// thread snapshot and pass it to Observe and Reconcile with the result.
func (c *ExecutionController) Generation() uint64 {
	return c.generation
}

// Suspend records a pushed report that threadID halted with frames. It returns the
// stored stack and whether the host should be notified: repeated reports of an unchanged
// stack are not.
func (c *ExecutionController) Suspend(threadID int, frames []Frame) (ExecutionStack, bool) {
	stack, changed := c.store(threadID, frames)
	if changed {
		c.generation++
		c.suspendedAt[threadID] = c.generation
	}
	return stack, changed
}

func (c *ExecutionController) store(threadID int, frames []Frame) (ExecutionStack, bool) {
	stack := ExecutionStack{ThreadID: threadID, Frames: append([]Frame(nil), frames...)}

	if held, ok := c.stacks[threadID]; ok && sameFrames(held.Frames, stack.Frames) {
		return held.clone(), false
	}

	c.stacks[threadID] = stack
	return stack.clone(), true
}

// Observe records a halted thread seen in a snapshot taken at generation since. A
// thread resumed after the snapshot was taken is ignored: the snapshot predates the
// resume, so it is not a new stop.
func (c *ExecutionController) Observe(threadID int, frames []Frame, since uint64) (ExecutionStack, bool) {
	if c.resumedAt[threadID] > since {
		return ExecutionStack{}, false
	}
	return c.store(threadID, frames)
}

// BeginResume validates a resume request. It fails without touching any state when no
// stack is held for threadID or a resume for it is already in flight.
func (c *ExecutionController) BeginResume(threadID int) error {
	if _, ok := c.stacks[threadID]; !ok {
		return &DesyncError{ThreadID: threadID, Reason: "no suspended execution stack"}
	}
	if c.resuming[threadID] {
		return &DesyncError{ThreadID: threadID, Reason: "resume already in progress"}
	}
	c.resuming[threadID] = true
	return nil
}

// FinishResume applies the server's reply. On success the stack is discarded and true is
// returned; on failure the stack is kept.
func (c *ExecutionController) FinishResume(threadID int, err error) bool {
	delete(c.resuming, threadID)
	if err != nil {
		return false
	}
	if _, ok := c.stacks[threadID]; !ok {
		return false
	}
	delete(c.stacks, threadID)
	c.generation++
	c.resumedAt[threadID] = c.generation
	return true
}

// Reconcile drops the stacks of threads that are no longer halted in a snapshot taken
// at generation since and returns their ids. Threads with a resume in flight are left
// to FinishResume, and threads pushed as suspended after the snapshot was taken are kept.
func (c *ExecutionController) Reconcile(halted map[int]bool, since uint64) []int {
	pruneBefore(c.resumedAt, since)
	pruneBefore(c.suspendedAt, since)

	var gone []int
	for id := range c.stacks {
		if !halted[id] && !c.resuming[id] && c.suspendedAt[id] <= since {
			gone = append(gone, id)
		}
	}
	sort.Ints(gone)
	for _, id := range gone {
		delete(c.stacks, id)
	}
	return gone
}

// Clear discards every stack and returns the ids that were held.
func (c *ExecutionController) Clear() []int {
	ids := make([]int, 0, len(c.stacks))
	for id := range c.stacks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	c.stacks = make(map[int]ExecutionStack)
	c.resuming = make(map[int]bool)
	c.resumedAt = make(map[int]uint64)
	c.suspendedAt = make(map[int]uint64)
	return ids
}

// Stack returns a copy of the stack held for threadID.
func (c *ExecutionController) Stack(threadID int) (ExecutionStack, bool) {
	s, ok := c.stacks[threadID]
	if !ok {
		return ExecutionStack{}, false
	}
	return s.clone(), true
}

// Stacks returns copies of all held stacks ordered by thread id.
func (c *ExecutionController) Stacks() []ExecutionStack {
	out := make([]ExecutionStack, 0, len(c.stacks))
	for _, s := range c.stacks {
		out = append(out, s.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ThreadID < out[j].ThreadID })
	return out
}

func pruneBefore(gens map[int]uint64, since uint64) {
	for id, gen := range gens {
		if gen <= since {
			delete(gens, id)
		}
	}
}

func sameFrames(a, b []Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package debugger

import "sort"

// entry is the synchronizer's record for one key.
type entry struct {
	key      Key
	wanted   bool
	remoteID int
	inflight Op
	verified bool
}

// request is a breakpoint call the session must dispatch to the client.
type request struct {
	op       Op
	key      Key
	remoteID int
}

// pendingOp is an intent recorded while no connection exists.
type pendingOp struct {
	op  Op
	key Key
}

// syncOutcome collects what a synchronizer step produced. The session dispatches the
// requests and turns the rest into host notifications.
type syncOutcome struct {
	requests   []request
	verified   []Key
	unverified []Key
	failures   []error
}

// Synchronizer owns the mapping from breakpoint keys to server ids and the queue of
// intents recorded while disconnected. It performs no I/O and is not safe for concurrent
// use; the session serializes every call.
//
// At most one create or delete is in flight per key. Requests made while a call is in
// flight only update the wanted flag; the reply reconciles the server with it.
type Synchronizer struct {
	entries   map[Key]*entry
	queue     []pendingOp
	connected bool
}

// NewSynchronizer creates an empty, disconnected synchronizer.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{entries: make(map[Key]*entry)}
}

// RequestAdd records that the host wants a breakpoint at key. Adding a key that is
// already verified or pending does nothing; adding one whose create failed sends it again.
func (s *Synchronizer) RequestAdd(key Key) syncOutcome {
	var out syncOutcome

	e := s.entries[key]
	if e == nil {
		e = &entry{key: key}
		s.entries[key] = e
	}
	if e.wanted {
		// A create that failed left the key unsent; adding it again retries.
		if s.connected && e.remoteID == 0 && e.inflight == 0 {
			e.inflight = OpCreate
			out.requests = append(out.requests, request{op: OpCreate, key: key})
		}
		return out
	}
	e.wanted = true

	if !s.connected {
		s.queue = append(s.queue, pendingOp{op: OpCreate, key: key})
		return out
	}

	switch {
	case e.inflight != 0:
		// Reconciled when the in-flight call returns.
	case e.remoteID != 0:
		e.verified = true
		out.verified = append(out.verified, key)
	default:
		e.inflight = OpCreate
		out.requests = append(out.requests, request{op: OpCreate, key: key})
	}

	return out
}

// RequestRemove records that the host no longer wants a breakpoint at key.
func (s *Synchronizer) RequestRemove(key Key) syncOutcome {
	var out syncOutcome

	e := s.entries[key]
	if e == nil || !e.wanted {
		return out
	}
	e.wanted = false
	e.verified = false

	if !s.connected {
		if !s.cancelQueued(key, OpCreate) {
			s.queue = append(s.queue, pendingOp{op: OpDelete, key: key})
		}
		s.prune(e)
		return out
	}

	switch {
	case e.inflight != 0:
	case e.remoteID != 0:
		e.inflight = OpDelete
		out.requests = append(out.requests, request{op: OpDelete, key: key, remoteID: e.remoteID})
	default:
		s.prune(e)
	}

	return out
}

// OnConnected drains the queue in FIFO order. Each key is visited once, at the position
// of its first queued intent, and the call issued for it is decided by the key's final
// wanted state, so a create followed by a delete of the same key issues nothing.
func (s *Synchronizer) OnConnected() syncOutcome {
	var out syncOutcome
	s.connected = true

	queue := s.queue
	s.queue = nil

	seen := make(map[Key]bool, len(queue))
	for _, p := range queue {
		if seen[p.key] {
			continue
		}
		seen[p.key] = true

		e := s.entries[p.key]
		if e == nil || e.inflight != 0 {
			continue
		}
		switch {
		case e.wanted && e.remoteID == 0:
			e.inflight = OpCreate
			out.requests = append(out.requests, request{op: OpCreate, key: e.key})
		case !e.wanted && e.remoteID != 0:
			e.inflight = OpDelete
			out.requests = append(out.requests, request{op: OpDelete, key: e.key, remoteID: e.remoteID})
		default:
			s.prune(e)
		}
	}

	return out
}

// OnDisconnected invalidates every server id. Verified breakpoints are demoted, and every
// wanted breakpoint is queued again for the next connection. In-flight calls are
// forgotten; their replies are stale.
func (s *Synchronizer) OnDisconnected() syncOutcome {
	var out syncOutcome
	s.connected = false

	queued := make(map[Key]bool, len(s.queue))
	for _, p := range s.queue {
		queued[p.key] = true
	}

	for _, key := range s.sortedKeys() {
		e := s.entries[key]
		e.remoteID = 0
		e.inflight = 0
		if e.verified {
			e.verified = false
			out.unverified = append(out.unverified, key)
		}
		if e.wanted && !queued[key] {
			s.queue = append(s.queue, pendingOp{op: OpCreate, key: key})
		}
		if !e.wanted && !queued[key] {
			delete(s.entries, key)
		}
	}

	return out
}

// OnCreateResult applies the reply to a create call for key.
func (s *Synchronizer) OnCreateResult(key Key, remoteID int, err error) syncOutcome {
	var out syncOutcome

	e := s.entries[key]
	if e == nil || e.inflight != OpCreate {
		return out
	}
	e.inflight = 0

	if err != nil {
		e.verified = false
		out.failures = append(out.failures, &SyncError{Key: key, Op: OpCreate, Err: err})
		s.prune(e)
		return out
	}

	e.remoteID = remoteID
	if e.wanted {
		e.verified = true
		out.verified = append(out.verified, key)
		return out
	}

	// Removed while the create was in flight.
	e.inflight = OpDelete
	out.requests = append(out.requests, request{op: OpDelete, key: key, remoteID: remoteID})
	return out
}

// OnDeleteResult applies the reply to a delete call for key.
func (s *Synchronizer) OnDeleteResult(key Key, err error) syncOutcome {
	var out syncOutcome

	e := s.entries[key]
	if e == nil || e.inflight != OpDelete {
		return out
	}
	e.inflight = 0

	if err != nil {
		// The breakpoint still exists on the server.
		e.wanted = true
		e.verified = true
		out.failures = append(out.failures, &SyncError{Key: key, Op: OpDelete, Err: err})
		out.verified = append(out.verified, key)
		return out
	}

	e.remoteID = 0
	if e.wanted {
		// Added again while the delete was in flight.
		e.inflight = OpCreate
		out.requests = append(out.requests, request{op: OpCreate, key: key})
		return out
	}

	s.prune(e)
	return out
}

// Breakpoints returns the breakpoints the host wants, ordered by path and line.
func (s *Synchronizer) Breakpoints() []Breakpoint {
	queued := make(map[Key]bool, len(s.queue))
	for _, p := range s.queue {
		queued[p.key] = true
	}

	var bps []Breakpoint
	for _, key := range s.sortedKeys() {
		e := s.entries[key]
		if !e.wanted {
			continue
		}
		bps = append(bps, Breakpoint{
			Key:      key,
			RemoteID: e.remoteID,
			Verified: e.verified,
			Pending:  e.inflight != 0 || queued[key],
		})
	}
	return bps
}

// RemoteID returns the server id recorded for key, 0 if none.
func (s *Synchronizer) RemoteID(key Key) int {
	if e := s.entries[key]; e != nil {
		return e.remoteID
	}
	return 0
}

// Queued returns a copy of the pending intents in FIFO order.
func (s *Synchronizer) Queued() []pendingOp {
	return append([]pendingOp(nil), s.queue...)
}

func (s *Synchronizer) cancelQueued(key Key, op Op) bool {
	for i := len(s.queue) - 1; i >= 0; i-- {
		if s.queue[i].key != key {
			continue
		}
		if s.queue[i].op != op {
			return false
		}
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
		return true
	}
	return false
}

// prune forgets an entry that has nothing left to do.
func (s *Synchronizer) prune(e *entry) {
	if e.wanted || e.remoteID != 0 || e.inflight != 0 {
		return
	}
	for _, p := range s.queue {
		if p.key == e.key {
			return
		}
	}
	delete(s.entries, e.key)
}

func (s *Synchronizer) sortedKeys() []Key {
	keys := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Line < keys[j].Line
	})
	return keys
}

package debugger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/uber-go/tally"
	"golang.org/x/sync/semaphore"

	"github.com/sfcc-studio/scriptdebug/internal/constants"
)

// Config tunes a Session.
type Config struct {
	// OperationTimeout bounds every breakpoint, resume, thread and keepalive call.
	OperationTimeout time.Duration
	// ConnectTimeout bounds the handshake.
	ConnectTimeout time.Duration
	// PollInterval is how often the watcher lists threads; 0 disables polling after the
	// initial fetch on connect.
	PollInterval time.Duration
	// KeepAliveInterval is how often the watcher resets the server's idle timer; 0 disables it.
	KeepAliveInterval time.Duration
	// MaxInFlight bounds concurrent breakpoint calls. Resume calls have a separate bound
	// of the same size, so breakpoint traffic never delays a resume.
	MaxInFlight int64
	// MaxPollFailures consecutive watcher failures mark the connection lost.
	MaxPollFailures int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		OperationTimeout:  constants.DefaultOperationTimeout,
		ConnectTimeout:    constants.DefaultConnectTimeout,
		PollInterval:      constants.DefaultPollInterval,
		KeepAliveInterval: constants.DefaultKeepAliveInterval,
		MaxInFlight:       constants.DefaultMaxInFlight,
		MaxPollFailures:   constants.DefaultMaxPollFailures,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = d.OperationTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = d.MaxInFlight
	}
	if c.MaxPollFailures <= 0 {
		c.MaxPollFailures = d.MaxPollFailures
	}
	return c
}

// Handlers receives session notifications. Every field is optional. Handlers are called
// one at a time, in the order the session produced them, from a goroutine that holds no
// session lock, so they may call back into the session.
type Handlers struct {
	OnBreakpointVerified   func(key Key)
	OnBreakpointUnverified func(key Key)
	OnStatus               func(state ConnectionState, message string)
	OnSuspended            func(stack ExecutionStack)
	OnResumed              func(threadID int)
	// OnFailed receives *ConnectionError, *SyncError and *DesyncError values.
	OnFailed func(err error)
}

// Session is a debug session against one remote debugger. It gates breakpoint and
// execution operations on the connection state and applies client replies.
//
// Host operations return as soon as their calls are dispatched; outcomes arrive
// through Handlers. Returned errors only cover requests the session refuses outright.
type Session struct {
	cfg      Config
	client   Client
	handlers Handlers
	logger   zerolog.Logger
	metrics  *metrics
	sem      *semaphore.Weighted

	// resumeSem bounds resume calls apart from sem.
	resumeSem *semaphore.Weighted

	// ctx is the parent of every dispatched call; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       stateMachine
	breakpoints *Synchronizer
	execution   *ExecutionController
	stopWatcher context.CancelFunc
	closed      bool

	// events holds notifications not yet delivered, guarded by mu.
	events     []func()
	wake       chan struct{}
	stopEvents chan struct{}
	eventsDone chan struct{}
}

// NewSession creates a disconnected session. scope may be nil.
func NewSession(client Client, cfg Config, handlers Handlers, logger zerolog.Logger, scope tally.Scope) *Session {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		cfg:         cfg,
		client:      client,
		handlers:    handlers,
		logger:      logger.With().Str("component", "session").Logger(),
		metrics:     newMetrics(scope),
		sem:         semaphore.NewWeighted(cfg.MaxInFlight),
		resumeSem:   semaphore.NewWeighted(cfg.MaxInFlight),
		ctx:         ctx,
		cancel:      cancel,
		breakpoints: NewSynchronizer(),
		execution:   NewExecutionController(),
		wake:        make(chan struct{}, 1),
		stopEvents:  make(chan struct{}),
		eventsDone:  make(chan struct{}),
	}

	go s.deliver()

	return s
}

// State returns the current connection state.
func (s *Session) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.state
}

// Breakpoints returns a snapshot of the breakpoints the host wants.
func (s *Session) Breakpoints() []Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakpoints.Breakpoints()
}

// Stacks returns a snapshot of the suspended threads.
func (s *Session) Stacks() []ExecutionStack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execution.Stacks()
}

// Connect performs the handshake and, on success, replays queued breakpoint intents and
// starts the thread watcher. It blocks until the handshake completes or fails. A failed
// handshake leaves the session Disconnected and is also reported through OnFailed.
// Connect is a no-op when already connected; it does not retry.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	switch s.state.state {
	case StateConnected:
		s.mu.Unlock()
		return nil
	case StateConnecting:
		s.mu.Unlock()
		return ErrConnectInProgress
	}
	epoch, _ := s.state.begin()
	s.setStateLocked(StateDisconnected, StateConnecting, "Connecting to remote debugger")
	s.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	err := s.client.Connect(cctx)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.pending(epoch) {
		s.logger.Debug().Err(err).Msg("Handshake finished after disconnect")
		return ErrConnectAborted
	}

	if err != nil {
		s.state.reset()
		cerr := &ConnectionError{Op: "connect", Err: classify("connect", err)}
		s.metrics.connectFailures.Inc(1)
		s.logger.Warn().Err(err).Msg("Handshake failed")
		s.setStateLocked(StateConnecting, StateDisconnected, fmt.Sprintf("Connection failed: %v", err))
		s.notifyFailedLocked(cerr)
		return cerr
	}

	s.state.establish(epoch)
	s.setStateLocked(StateConnecting, StateConnected, "Connected")

	s.applyLocked(epoch, s.breakpoints.OnConnected())
	s.startWatcherLocked(epoch)

	return nil
}

// Disconnect ends the session's connection. It is idempotent. Local state is reset
// before the server is told: every breakpoint is demoted to unverified and queued for the
// next connection, and every suspended thread is reported resumed.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	prev := s.enterDisconnectedLocked("Debug session stopped")
	s.mu.Unlock()

	if prev == StateDisconnected {
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	if err := s.client.Disconnect(cctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove debugger client from server")
		cerr := &ConnectionError{Op: "disconnect", Err: classify("disconnect", err)}
		s.mu.Lock()
		s.notifyFailedLocked(cerr)
		s.mu.Unlock()
		return cerr
	}

	return nil
}

// AddBreakpoint asks for a breakpoint at key. While connected the create call is
// dispatched immediately; otherwise the intent is queued for the next connection.
func (s *Session) AddBreakpoint(key Key) error {
	if !key.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.applyLocked(s.state.epoch, s.breakpoints.RequestAdd(key))
	return nil
}

// RemoveBreakpoint asks for the breakpoint at key to be removed.
func (s *Session) RemoveBreakpoint(key Key) error {
	if !key.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.applyLocked(s.state.epoch, s.breakpoints.RequestRemove(key))
	return nil
}

// Resume continues a suspended thread. A thread without a held execution stack is
// reported as a *DesyncError through OnFailed and nothing is sent. Resume does not wait
// for queued or in-flight breakpoint calls.
func (s *Session) Resume(threadID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	if err := s.execution.BeginResume(threadID); err != nil {
		s.logger.Warn().Int("thread_id", threadID).Err(err).Msg("Rejected resume")
		s.notifyFailedLocked(err)
		return nil
	}

	epoch := s.state.epoch
	s.wg.Add(1)
	go s.runResume(epoch, threadID)
	return nil
}

// HandleSuspend records a suspend event pushed by the host or a client that has an
// event stream. Events arriving while not connected are dropped.
func (s *Session) HandleSuspend(threadID int, frames []Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.state != StateConnected {
		s.logger.Debug().Int("thread_id", threadID).Msg("Dropping suspend event while not connected")
		return
	}
	s.suspendLocked(threadID, frames)
}

// Close disconnects, cancels in-flight calls and waits for every goroutine the session
// started, including delivery of pending notifications. It must not be called from a
// handler.
func (s *Session) Close() error {
	err := s.Disconnect(context.Background())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	close(s.stopEvents)
	<-s.eventsDone

	return err
}

// enterDisconnectedLocked resets the connection and all state tied to it. It returns the
// state the session was in.
func (s *Session) enterDisconnectedLocked(message string) ConnectionState {
	prev := s.state.reset()
	if prev == StateDisconnected {
		return prev
	}

	if s.stopWatcher != nil {
		s.stopWatcher()
		s.stopWatcher = nil
	}

	s.applyLocked(s.state.epoch, s.breakpoints.OnDisconnected())

	for _, id := range s.execution.Clear() {
		threadID := id
		s.logger.Info().Int("thread_id", threadID).Msg("Abandoning suspended thread")
		s.notifyLocked(func() {
			if s.handlers.OnResumed != nil {
				s.handlers.OnResumed(threadID)
			}
		})
	}

	s.setStateLocked(prev, StateDisconnected, message)
	return prev
}

// applyLocked dispatches an outcome's requests and queues its notifications.
func (s *Session) applyLocked(epoch uint64, out syncOutcome) {
	for _, req := range out.requests {
		s.wg.Add(1)
		go s.runBreakpoint(epoch, req)
	}

	for _, key := range out.verified {
		k := key
		s.notifyLocked(func() {
			if s.handlers.OnBreakpointVerified != nil {
				s.handlers.OnBreakpointVerified(k)
			}
		})
	}

	for _, key := range out.unverified {
		k := key
		s.notifyLocked(func() {
			if s.handlers.OnBreakpointUnverified != nil {
				s.handlers.OnBreakpointUnverified(k)
			}
		})
	}

	for _, err := range out.failures {
		s.metrics.syncFailures.Inc(1)
		s.logger.Warn().Err(err).Msg("Breakpoint synchronization failed")
		s.notifyFailedLocked(err)
	}
}

func (s *Session) runBreakpoint(epoch uint64, req request) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.OperationTimeout)
	defer cancel()

	var (
		id  int
		err error
	)
	if err = s.sem.Acquire(ctx, 1); err == nil {
		switch req.op {
		case OpCreate:
			id, err = s.client.CreateBreakpoint(ctx, req.key.Line+1, req.key.Path)
		case OpDelete:
			err = s.client.DeleteBreakpoint(ctx, req.remoteID)
		}
		s.sem.Release(1)
	}
	err = classify(req.op.String()+" breakpoint", err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.current(epoch) {
		s.metrics.staleReplies.Inc(1)
		s.logger.Debug().
			Str("op", req.op.String()).
			Str("breakpoint", req.key.String()).
			Msg("Dropping stale breakpoint reply")
		return
	}

	switch req.op {
	case OpCreate:
		if err == nil {
			s.metrics.creates.Inc(1)
			s.logger.Debug().Str("breakpoint", req.key.String()).Int("remote_id", id).Msg("Breakpoint created")
		}
		s.applyLocked(epoch, s.breakpoints.OnCreateResult(req.key, id, err))
	case OpDelete:
		if err == nil {
			s.metrics.deletes.Inc(1)
			s.logger.Debug().Str("breakpoint", req.key.String()).Int("remote_id", req.remoteID).Msg("Breakpoint deleted")
		}
		s.applyLocked(epoch, s.breakpoints.OnDeleteResult(req.key, err))
	}
}

func (s *Session) runResume(epoch uint64, threadID int) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.OperationTimeout)
	defer cancel()

	err := s.resumeSem.Acquire(ctx, 1)
	if err == nil {
		err = s.client.Resume(ctx, threadID)
		s.resumeSem.Release(1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.current(epoch) {
		s.metrics.staleReplies.Inc(1)
		s.logger.Debug().Int("thread_id", threadID).Msg("Dropping stale resume reply")
		return
	}

	if err != nil {
		s.execution.FinishResume(threadID, err)
		derr := &DesyncError{ThreadID: threadID, Reason: "resume failed", Err: classify("resume", err)}
		s.logger.Warn().Int("thread_id", threadID).Err(err).Msg("Resume failed")
		s.notifyFailedLocked(derr)
		return
	}

	if s.execution.FinishResume(threadID, nil) {
		s.metrics.resumes.Inc(1)
		s.notifyLocked(func() {
			if s.handlers.OnResumed != nil {
				s.handlers.OnResumed(threadID)
			}
		})
	}
}

func (s *Session) suspendLocked(threadID int, frames []Frame) {
	if stack, changed := s.execution.Suspend(threadID, frames); changed {
		s.notifySuspendedLocked(stack)
	}
}

func (s *Session) notifySuspendedLocked(stack ExecutionStack) {
	threadID := stack.ThreadID
	s.metrics.suspends.Inc(1)
	event := s.logger.Info().Int("thread_id", threadID)
	if top, ok := stack.Top(); ok {
		event = event.Str("script", top.Path).Int("line", top.Line+1)
	}
	event.Msg("Thread suspended")

	s.notifyLocked(func() {
		if s.handlers.OnSuspended != nil {
			s.handlers.OnSuspended(stack)
		}
	})
}

func (s *Session) setStateLocked(from, to ConnectionState, message string) {
	s.metrics.state.Update(float64(to))
	s.logger.Info().
		Str("old_state", from.String()).
		Str("new_state", to.String()).
		Msg("Connection state changed")

	s.notifyLocked(func() {
		if s.handlers.OnStatus != nil {
			s.handlers.OnStatus(to, message)
		}
	})
}

func (s *Session) notifyFailedLocked(err error) {
	s.notifyLocked(func() {
		if s.handlers.OnFailed != nil {
			s.handlers.OnFailed(err)
		}
	})
}

// notifyLocked queues a notification for the delivery goroutine.
func (s *Session) notifyLocked(fn func()) {
	s.events = append(s.events, fn)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// deliver runs notifications in order until Close, then drains what is left.
func (s *Session) deliver() {
	defer close(s.eventsDone)

	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.stopEvents:
			s.flush()
			return
		}
	}
}

func (s *Session) flush() {
	for {
		s.mu.Lock()
		batch := s.events
		s.events = nil
		s.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}

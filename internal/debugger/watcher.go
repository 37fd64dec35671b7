package debugger

import (
	"context"
	"fmt"
	"time"
)

// startWatcherLocked starts the thread watcher for the connection identified by epoch.
func (s *Session) startWatcherLocked(epoch uint64) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.stopWatcher = cancel

	s.wg.Add(1)
	go s.watch(ctx, epoch)
}

// watch fetches the thread list once right away, then polls threads and sends
// keepalives on their intervals until the connection ends. MaxPollFailures consecutive
// failed calls mark the connection lost.
func (s *Session) watch(ctx context.Context, epoch uint64) {
	defer s.wg.Done()

	logger := s.logger.With().Str("component", "watcher").Logger()
	failures := 0

	check := func(op string, err error) bool {
		if err == nil {
			failures = 0
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		failures++
		logger.Warn().
			Err(err).
			Str("op", op).
			Int("consecutive_failures", failures).
			Msg("Watcher call failed")

		if failures >= s.cfg.MaxPollFailures {
			s.connectionLost(epoch, fmt.Errorf("%d consecutive %s failures: %w", failures, op, classify(op, err)))
		}
		return false
	}

	poll := func() {
		since := s.generation()
		threads, err := s.callThreads(ctx)
		if check("threads", err) {
			s.applyThreads(epoch, since, threads)
		}
	}

	poll()

	var pollC, keepAliveC <-chan time.Time
	if s.cfg.PollInterval > 0 {
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		pollC = ticker.C
	}
	if s.cfg.KeepAliveInterval > 0 {
		ticker := time.NewTicker(s.cfg.KeepAliveInterval)
		defer ticker.Stop()
		keepAliveC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-pollC:
			poll()
		case <-keepAliveC:
			cctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
			err := s.client.KeepAlive(cctx)
			cancel()
			check("keepalive", err)
		}
	}
}

func (s *Session) callThreads(ctx context.Context) ([]Thread, error) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()
	return s.client.Threads(cctx)
}

func (s *Session) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execution.Generation()
}

// applyThreads records newly halted threads and reports held threads that are no longer
// halted as resumed. since is the generation taken before the threads were listed.
func (s *Session) applyThreads(epoch, since uint64, threads []Thread) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.current(epoch) {
		s.metrics.staleReplies.Inc(1)
		return
	}
	s.metrics.threadPolls.Inc(1)

	halted := make(map[int]bool, len(threads))
	for _, t := range threads {
		if !t.Halted {
			continue
		}
		halted[t.ID] = true
		stack, changed := s.execution.Observe(t.ID, t.Frames, since)
		if changed {
			s.notifySuspendedLocked(stack)
		}
	}

	for _, id := range s.execution.Reconcile(halted, since) {
		threadID := id
		s.logger.Info().Int("thread_id", threadID).Msg("Thread resumed outside this session")
		s.notifyLocked(func() {
			if s.handlers.OnResumed != nil {
				s.handlers.OnResumed(threadID)
			}
		})
	}
}

// connectionLost moves the session to Disconnected after the watcher gave up.
func (s *Session) connectionLost(epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.current(epoch) {
		return
	}

	s.logger.Error().Err(err).Msg("Connection to remote debugger lost")
	s.enterDisconnectedLocked("Connection lost")
	s.notifyFailedLocked(&ConnectionError{Op: "watch", Err: err})
}

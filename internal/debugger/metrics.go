package debugger

import "github.com/uber-go/tally"

type metrics struct {
	creates         tally.Counter
	deletes         tally.Counter
	syncFailures    tally.Counter
	staleReplies    tally.Counter
	resumes         tally.Counter
	suspends        tally.Counter
	threadPolls     tally.Counter
	connectFailures tally.Counter
	state           tally.Gauge
}

func newMetrics(scope tally.Scope) *metrics {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &metrics{
		creates:         scope.Counter("breakpoint_create"),
		deletes:         scope.Counter("breakpoint_delete"),
		syncFailures:    scope.Counter("sync_failure"),
		staleReplies:    scope.Counter("stale_reply"),
		resumes:         scope.Counter("resume"),
		suspends:        scope.Counter("suspend"),
		threadPolls:     scope.Counter("thread_poll"),
		connectFailures: scope.Counter("connect_failure"),
		state:           scope.Gauge("state"),
	}
}

package logging

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/uber-go/tally"
)

// StatsReporter is a tally.StatsReporter that writes every reported value as a debug
// log event. It lets the CLI surface session metrics without a metrics backend.
type StatsReporter struct {
	logger zerolog.Logger
}

var _ tally.StatsReporter = (*StatsReporter)(nil)

// NewStatsReporter creates a reporter logging through logger.
func NewStatsReporter(logger zerolog.Logger) *StatsReporter {
	return &StatsReporter{logger: logger.With().Str("component", "metrics").Logger()}
}

type capabilities struct{}

func (capabilities) Reporting() bool { return true }
func (capabilities) Tagging() bool   { return true }

// Capabilities reports that values and tags are both emitted.
func (r *StatsReporter) Capabilities() tally.Capabilities {
	return capabilities{}
}

// Flush is a no-op; events are written as they are reported.
func (r *StatsReporter) Flush() {}

func (r *StatsReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.event("counter", name, tags).Int64("value", value).Send()
}

func (r *StatsReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.event("gauge", name, tags).Float64("value", value).Send()
}

func (r *StatsReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.event("timer", name, tags).Dur("value", interval).Send()
}

func (r *StatsReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound, bucketUpperBound float64,
	samples int64,
) {
	r.event("histogram", name, tags).
		Float64("lower", bucketLowerBound).
		Float64("upper", bucketUpperBound).
		Int64("samples", samples).
		Send()
}

func (r *StatsReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound, bucketUpperBound time.Duration,
	samples int64,
) {
	r.event("histogram", name, tags).
		Dur("lower", bucketLowerBound).
		Dur("upper", bucketUpperBound).
		Int64("samples", samples).
		Send()
}

func (r *StatsReporter) event(kind, name string, tags map[string]string) *zerolog.Event {
	e := r.logger.Debug().Str("metric", name).Str("kind", kind)
	if len(tags) > 0 {
		dict := zerolog.Dict()
		for k, v := range tags {
			dict.Str(k, v)
		}
		e = e.Dict("tags", dict)
	}
	return e
}

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestStatsReporter_Counter(t *testing.T) {
	var buf bytes.Buffer
	r := NewStatsReporter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	r.ReportCounter("scriptdebug.resume", map[string]string{"host": "dev01"}, 3)

	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	assert.Equal(t, "scriptdebug.resume", events[0]["metric"])
	assert.Equal(t, "counter", events[0]["kind"])
	assert.Equal(t, float64(3), events[0]["value"])
	assert.Equal(t, map[string]interface{}{"host": "dev01"}, events[0]["tags"])
	assert.Equal(t, "metrics", events[0]["component"])
}

func TestStatsReporter_QuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	r := NewStatsReporter(zerolog.New(&buf).Level(zerolog.InfoLevel))

	r.ReportGauge("state", nil, 2)
	r.ReportTimer("connect", nil, time.Second)

	assert.Empty(t, buf.String())
}

func TestStatsReporter_Capabilities(t *testing.T) {
	r := NewStatsReporter(zerolog.Nop())
	assert.True(t, r.Capabilities().Reporting())
	assert.True(t, r.Capabilities().Tagging())
}

func TestStatsReporter_Histogram(t *testing.T) {
	var buf bytes.Buffer
	r := NewStatsReporter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	buckets := tally.MustMakeLinearValueBuckets(0, 10, 3)
	r.ReportHistogramValueSamples("poll_threads", nil, buckets, 10, 20, 4)

	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	assert.Equal(t, "histogram", events[0]["kind"])
	assert.Equal(t, float64(4), events[0]["samples"])
	assert.NotContains(t, events[0], "tags")
}

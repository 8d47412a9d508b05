package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/graphql", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/graphql", "POST", 200, 30*time.Millisecond)
	m.RecordRequest("/health", "GET", 200, time.Millisecond)
	m.RecordError("/graphql", "POST", "UNAUTHORIZED")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/graphql|POST|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMS["/graphql|POST|200"])
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.Errors["/graphql|POST|UNAUTHORIZED"])
	assert.Equal(t, int64(1), snap.TotalErrors)

	m.RecordRequest("/health", "GET", 200, time.Millisecond)
	assert.Equal(t, int64(1), snap.Requests["/health|GET|200"], "snapshot must not alias live counters")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
	})
}

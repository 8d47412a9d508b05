package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters keyed by "path|method|status" and "path|method|code".
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	requestCount map[string]int64
	requestTime  map[string]time.Duration
	errorCount   map[string]int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	UptimeSeconds int64            `json:"uptimeSeconds"`
	Requests      map[string]int64 `json:"requests"`
	AvgLatencyMS  map[string]int64 `json:"avgLatencyMs"`
	Errors        map[string]int64 `json:"errors"`
	TotalRequests int64            `json:"totalRequests"`
	TotalErrors   int64            `json:"totalErrors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		requestCount: make(map[string]int64),
		requestTime:  make(map[string]time.Duration),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestTime[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		Requests:      make(map[string]int64, len(m.requestCount)),
		AvgLatencyMS:  make(map[string]int64, len(m.requestCount)),
		Errors:        make(map[string]int64, len(m.errorCount)),
	}
	for key, n := range m.requestCount {
		snap.Requests[key] = n
		snap.AvgLatencyMS[key] = (m.requestTime[key] / time.Duration(n)).Milliseconds()
		snap.TotalRequests += n
	}
	for key, n := range m.errorCount {
		snap.Errors[key] = n
		snap.TotalErrors += n
	}
	return snap
}

func pathKey(path, method, suffix string) string {
	return path + "|" + method + "|" + suffix
}

// ABOUTME: Query metrics owned by the MCP serving layer
// ABOUTME: Implements the pipeline observer and keeps a capped request log
package mcp

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxRequestLog bounds the in-memory request history
const maxRequestLog = 200

// RequestRecord is one logged query request
type RequestRecord struct {
	RequestID       string        `json:"request_id"`
	Timestamp       time.Time     `json:"timestamp"`
	Question        string        `json:"question"`
	ChunksRetrieved int           `json:"chunks_retrieved"`
	Latency         time.Duration `json:"latency_ms"`
	Failed          bool          `json:"failed"`
}

// Metrics collects query counters and a rolling request log. The
// serving layer owns it and passes it to the pipeline as an observer.
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	totalQueries int
	totalErrors  int
	totalChunks  int
	totalLatency time.Duration
	requests     []RequestRecord
}

// NewMetrics creates a metrics collector with the uptime clock started
func NewMetrics() *Metrics {
	return &Metrics{startedAt: time.Now()}
}

// RecordQuery implements the pipeline observer contract
func (m *Metrics) RecordQuery(question string, chunksRetrieved int, latency time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalQueries++
	m.totalChunks += chunksRetrieved
	m.totalLatency += latency
	if err != nil {
		m.totalErrors++
	}

	m.requests = append(m.requests, RequestRecord{
		RequestID:       uuid.New().String(),
		Timestamp:       time.Now(),
		Question:        question,
		ChunksRetrieved: chunksRetrieved,
		Latency:         latency,
		Failed:          err != nil,
	})
	if len(m.requests) > maxRequestLog {
		m.requests = m.requests[len(m.requests)-maxRequestLog:]
	}
}

// Snapshot is a point-in-time view of the collected metrics
type Snapshot struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	TotalQueries   int     `json:"total_queries"`
	TotalErrors    int     `json:"total_errors"`
	TotalChunks    int     `json:"total_chunks_retrieved"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	RecentRequests int     `json:"recent_requests"`
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds:  time.Since(m.startedAt).Seconds(),
		TotalQueries:   m.totalQueries,
		TotalErrors:    m.totalErrors,
		TotalChunks:    m.totalChunks,
		RecentRequests: len(m.requests),
	}
	if m.totalQueries > 0 {
		snap.AvgLatencyMS = float64(m.totalLatency.Milliseconds()) / float64(m.totalQueries)
	}
	return snap
}

// RecentRequests returns a copy of the request log, newest last
func (m *Metrics) RecentRequests() []RequestRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RequestRecord, len(m.requests))
	copy(out, m.requests)
	return out
}

package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application counters. All writers are atomic or mutex
// guarded so the instance can be shared across handlers.
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	EvaluationCount int64
	FallbackCount   int64
	StartTime       time.Time

	// Status code tracking
	RequestCountByStatus map[int]int64
	statusMutex          sync.RWMutex

	// External API metrics keyed by API name (deepseek, tavily)
	ExternalAPIRequests   map[string]int64
	ExternalAPIErrorCount map[string]int64
	ExternalAPIDurationNs map[string]int64
	externalAPIMutex      sync.RWMutex

	// Rate limit metrics
	RateLimitBlocks      int64
	RateLimitRedisErrors int64
	RateLimitFallbacks   int64
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:             time.Now(),
		RequestCountByStatus:  make(map[int]int64),
		ExternalAPIRequests:   make(map[string]int64),
		ExternalAPIErrorCount: make(map[string]int64),
		ExternalAPIDurationNs: make(map[string]int64),
	}
}

// IncrementRequest increments the request count.
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count.
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementEvaluation increments the completed-evaluation count.
func (m *Metrics) IncrementEvaluation() {
	atomic.AddInt64(&m.EvaluationCount, 1)
}

// IncrementFallback increments the degraded-evaluation count.
func (m *Metrics) IncrementFallback() {
	atomic.AddInt64(&m.FallbackCount, 1)
}

// IncrementRateLimitBlock increments the blocked-request count.
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementRateLimitRedisError increments the Redis failure count.
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback counts checks served by the in-memory limiter.
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbacks, 1)
}

// RecordRequestByStatus records request count by HTTP status code.
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// RecordExternalAPIRequest records one call to an external API.
func (m *Metrics) RecordExternalAPIRequest(apiName string, success bool, duration time.Duration) {
	m.externalAPIMutex.Lock()
	defer m.externalAPIMutex.Unlock()

	m.ExternalAPIRequests[apiName]++
	m.ExternalAPIDurationNs[apiName] += duration.Nanoseconds()
	if !success {
		m.ExternalAPIErrorCount[apiName]++
	}
}

// GetStats returns a snapshot of all metrics for the stats endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	m.statusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		byStatus[code] = count
	}
	m.statusMutex.RUnlock()

	m.externalAPIMutex.RLock()
	external := make(map[string]interface{}, len(m.ExternalAPIRequests))
	for name, count := range m.ExternalAPIRequests {
		avgNs := int64(0)
		if count > 0 {
			avgNs = m.ExternalAPIDurationNs[name] / count
		}
		external[name] = map[string]interface{}{
			"requests":    count,
			"errors":      m.ExternalAPIErrorCount[name],
			"avg_time_ms": time.Duration(avgNs).Milliseconds(),
		}
	}
	m.externalAPIMutex.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":     time.Since(m.StartTime).Seconds(),
		"request_count":      atomic.LoadInt64(&m.RequestCount),
		"error_count":        atomic.LoadInt64(&m.ErrorCount),
		"evaluation_count":   atomic.LoadInt64(&m.EvaluationCount),
		"fallback_count":     atomic.LoadInt64(&m.FallbackCount),
		"requests_by_status": byStatus,
		"external_apis":      external,
		"rate_limit": map[string]int64{
			"blocks":       atomic.LoadInt64(&m.RateLimitBlocks),
			"redis_errors": atomic.LoadInt64(&m.RateLimitRedisErrors),
			"fallbacks":    atomic.LoadInt64(&m.RateLimitFallbacks),
		},
	}
}

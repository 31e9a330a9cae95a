// Package metrics holds hand-rolled, mutex-guarded counters for the
// planning pipeline. The engine's own OpenTelemetry spans carry
// per-call detail; these counters are the cheap, always-on aggregate
// view used for dashboards and alerting.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds planning-pipeline performance counters.
type Metrics struct {
	mu sync.RWMutex

	PlanningCallCount    int64
	PlanningCallDuration time.Duration
	PlanningErrorCount   int64

	OracleFallbackCount int64
	OracleErrorCount    int64

	CacheHits   int64
	CacheMisses int64
	CacheErrors int64

	RepairCount int64

	CustomHistograms map[string]*Histogram
}

// Histogram tracks distribution of values
type Histogram struct {
	mu      sync.RWMutex
	buckets []float64
	counts  []int64
	sum     float64
	count   int64
}

// NewHistogram creates a new histogram with specified buckets
func NewHistogram(buckets []float64) *Histogram {
	return &Histogram{
		buckets: buckets,
		counts:  make([]int64, len(buckets)+1),
	}
}

// Observe adds a value to the histogram
func (h *Histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sum += value
	h.count++

	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[i]++
			return
		}
	}
	h.counts[len(h.buckets)]++
}

// Summary returns histogram summary
func (h *Histogram) Summary() HistogramSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HistogramSummary{
		Count:   h.count,
		Sum:     h.sum,
		Buckets: append([]float64{}, h.buckets...),
		Counts:  append([]int64{}, h.counts...),
	}
}

// HistogramSummary contains histogram data
type HistogramSummary struct {
	Count   int64
	Sum     float64
	Buckets []float64
	Counts  []int64
}

// Collector collects and manages planning-pipeline metrics.
type Collector struct {
	metrics *Metrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		metrics: &Metrics{
			CustomHistograms: make(map[string]*Histogram),
		},
	}
}

// RecordPlanningCall records one completed planning call (§4.8).
func (c *Collector) RecordPlanningCall(duration time.Duration, isError bool) {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	c.metrics.PlanningCallCount++
	c.metrics.PlanningCallDuration += duration
	if isError {
		c.metrics.PlanningErrorCount++
	}

	c.observeLocked("planning_call_duration_ms", float64(duration.Milliseconds()))
}

// RecordOracleOutcome records whether a C6 oracle call produced a
// fallback draft (timeout, error, or unparseable response).
func (c *Collector) RecordOracleOutcome(fallback bool, isError bool) {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	if fallback {
		c.metrics.OracleFallbackCount++
	}
	if isError {
		c.metrics.OracleErrorCount++
	}
}

// RecordCacheOperation records a catalog cache lookup outcome.
func (c *Collector) RecordCacheOperation(hit bool, isError bool) {
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()

	if hit {
		c.metrics.CacheHits++
	} else {
		c.metrics.CacheMisses++
	}
	if isError {
		c.metrics.CacheErrors++
	}
}

// RecordRepair records one C7 invariant-sweep repair (an overlap or
// duplicate-transfer drop).
func (c *Collector) RecordRepair() {
	if c == nil {
		return
	}
	c.metrics.mu.Lock()
	defer c.metrics.mu.Unlock()
	c.metrics.RepairCount++
}

func (c *Collector) observeLocked(name string, value float64) {
	if _, exists := c.metrics.CustomHistograms[name]; !exists {
		buckets := []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 45000}
		c.metrics.CustomHistograms[name] = NewHistogram(buckets)
	}
	c.metrics.CustomHistograms[name].Observe(value)
}

// Snapshot represents a point-in-time snapshot of metrics.
type Snapshot struct {
	PlanningCallCount    int64
	PlanningCallDuration time.Duration
	PlanningErrorCount   int64
	OracleFallbackCount  int64
	OracleErrorCount     int64
	CacheHits            int64
	CacheMisses          int64
	CacheErrors          int64
	RepairCount          int64
	CustomHistograms     map[string]HistogramSummary
	Timestamp            time.Time
}

// Snapshot returns a copy of current metrics.
func (c *Collector) Snapshot() Snapshot {
	c.metrics.mu.RLock()
	defer c.metrics.mu.RUnlock()

	histograms := make(map[string]HistogramSummary, len(c.metrics.CustomHistograms))
	for k, v := range c.metrics.CustomHistograms {
		histograms[k] = v.Summary()
	}

	return Snapshot{
		PlanningCallCount:    c.metrics.PlanningCallCount,
		PlanningCallDuration: c.metrics.PlanningCallDuration,
		PlanningErrorCount:   c.metrics.PlanningErrorCount,
		OracleFallbackCount:  c.metrics.OracleFallbackCount,
		OracleErrorCount:     c.metrics.OracleErrorCount,
		CacheHits:            c.metrics.CacheHits,
		CacheMisses:          c.metrics.CacheMisses,
		CacheErrors:          c.metrics.CacheErrors,
		RepairCount:          c.metrics.RepairCount,
		CustomHistograms:     histograms,
		Timestamp:            time.Now(),
	}
}

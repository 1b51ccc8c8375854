package core

import "sync"

// MetricsState aggregates resource-layer counters for the whole process.
// Binds elided vs issued is the number the state cache exists for, so it
// is kept here where the harness can log it every few seconds.
type MetricsState struct {
	BindsIssued  uint64
	BindsElided  uint64
	DrawCalls    uint64
	BuffersAlive int64
	TessAlive    int64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func metrics() *MetricsState {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return metricsState
}

func MetricsBindIssued() {
	metrics().BindsIssued++
}

func MetricsBindElided() {
	metrics().BindsElided++
}

func MetricsDrawCall() {
	metrics().DrawCalls++
}

func MetricsBufferCreated() {
	metrics().BuffersAlive++
}

func MetricsBufferDestroyed() {
	metrics().BuffersAlive--
}

func MetricsTessCreated() {
	metrics().TessAlive++
}

func MetricsTessDestroyed() {
	metrics().TessAlive--
}

// MetricsSnapshot returns a copy of the current counters.
func MetricsSnapshot() MetricsState {
	return *metrics()
}

// MetricsElisionRate returns the fraction of bind requests the cache elided,
// or 0 when no bind has been requested yet.
func MetricsElisionRate() float64 {
	m := metrics()
	total := m.BindsIssued + m.BindsElided
	if total == 0 {
		return 0
	}
	return float64(m.BindsElided) / float64(total)
}

package abcsmc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordDistance is called after each batch evaluation.
	// count is the batch size, err is nil if successful.
	RecordDistance(count int, duration time.Duration, err error)

	// RecordUpdate is called after each calibration (Initialize or Update)
	// of generation t. changed reports whether the distance changed.
	RecordUpdate(t int, changed bool, duration time.Duration, err error)

	// RecordNormalize is called after each population normalization.
	// skipped is the number of nil particles.
	RecordNormalize(particles, skipped int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDistance(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordUpdate(int, bool, time.Duration, error)   {}
func (NoopMetricsCollector) RecordNormalize(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	DistanceBatches    atomic.Int64
	DistanceCount      atomic.Int64
	DistanceErrors     atomic.Int64
	DistanceTotalNanos atomic.Int64
	UpdateCount        atomic.Int64
	UpdateChanged      atomic.Int64
	UpdateErrors       atomic.Int64
	LastGeneration     atomic.Int64
	NormalizeCount     atomic.Int64
	NormalizeSkipped   atomic.Int64
	NormalizeErrors    atomic.Int64
}

// RecordDistance implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDistance(count int, duration time.Duration, err error) {
	b.DistanceBatches.Add(1)
	b.DistanceCount.Add(int64(count))
	b.DistanceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DistanceErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(t int, changed bool, _ time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
		return
	}
	if changed {
		b.UpdateChanged.Add(1)
	}
	b.LastGeneration.Store(int64(t))
}

// RecordNormalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNormalize(_, skipped int, _ time.Duration, err error) {
	b.NormalizeCount.Add(1)
	b.NormalizeSkipped.Add(int64(skipped))
	if err != nil {
		b.NormalizeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DistanceBatches:  b.DistanceBatches.Load(),
		DistanceCount:    b.DistanceCount.Load(),
		DistanceErrors:   b.DistanceErrors.Load(),
		DistanceAvgNanos: b.getAvgDistanceNanos(),
		UpdateCount:      b.UpdateCount.Load(),
		UpdateChanged:    b.UpdateChanged.Load(),
		UpdateErrors:     b.UpdateErrors.Load(),
		LastGeneration:   b.LastGeneration.Load(),
		NormalizeCount:   b.NormalizeCount.Load(),
		NormalizeSkipped: b.NormalizeSkipped.Load(),
		NormalizeErrors:  b.NormalizeErrors.Load(),
	}
}

// getAvgDistanceNanos returns the mean time per evaluated statistics vector.
func (b *BasicMetricsCollector) getAvgDistanceNanos() int64 {
	count := b.DistanceCount.Load()
	if count == 0 {
		return 0
	}
	return b.DistanceTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DistanceBatches  int64
	DistanceCount    int64
	DistanceErrors   int64
	DistanceAvgNanos int64
	UpdateCount      int64
	UpdateChanged    int64
	UpdateErrors     int64
	LastGeneration   int64
	NormalizeCount   int64
	NormalizeSkipped int64
	NormalizeErrors  int64
}

package abcsmc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	m.RecordDistance(10, 100*time.Nanosecond, nil)
	m.RecordDistance(30, 300*time.Nanosecond, errors.New("x"))
	m.RecordUpdate(0, true, time.Millisecond, nil)
	m.RecordUpdate(1, false, time.Millisecond, nil)
	m.RecordUpdate(2, false, time.Millisecond, errors.New("x"))
	m.RecordNormalize(50, 3, time.Millisecond, nil)

	s := m.GetStats()
	assert.Equal(t, int64(2), s.DistanceBatches)
	assert.Equal(t, int64(40), s.DistanceCount)
	assert.Equal(t, int64(1), s.DistanceErrors)
	assert.Equal(t, int64(10), s.DistanceAvgNanos)
	assert.Equal(t, int64(3), s.UpdateCount)
	assert.Equal(t, int64(1), s.UpdateChanged)
	assert.Equal(t, int64(1), s.UpdateErrors)
	assert.Equal(t, int64(1), s.LastGeneration)
	assert.Equal(t, int64(1), s.NormalizeCount)
	assert.Equal(t, int64(3), s.NormalizeSkipped)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	m := &BasicMetricsCollector{}
	assert.Equal(t, BasicMetricsStats{}, m.GetStats())
}

func TestApplyOptions_Defaults(t *testing.T) {
	o := applyOptions([]Option{nil, WithParallelism(0)})
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
	assert.NotNil(t, o.logger)
	assert.Nil(t, o.snapshots)
	assert.Equal(t, 0, o.parallelism)
}

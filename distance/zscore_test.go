package distance

import (
	"math"
	"testing"

	"github.com/hupe1980/abcsmc/sumstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScore(t *testing.T) {
	d := NewZScore("a", "b")
	assert.True(t, d.RequiresInitialize())

	tests := []struct {
		name     string
		x, y     sumstat.Stats
		expected float64
	}{
		{"Equal", sumstat.Stats{"a": 1, "b": 2}, sumstat.Stats{"a": 1, "b": 2}, 0},
		{"Relative", sumstat.Stats{"a": 3, "b": 1}, sumstat.Stats{"a": 2, "b": 2}, (0.5 + 0.5) / 2},
		{"NegativeObserved", sumstat.Stats{"a": -1, "b": 2}, sumstat.Stats{"a": -2, "b": 2}, 0.25},
		{"ZeroOverZero", sumstat.Stats{"a": 0, "b": 4}, sumstat.Stats{"a": 0, "b": 2}, 0.5},
		{"NonzeroOverZero", sumstat.Stats{"a": 1, "b": 2}, sumstat.Stats{"a": 0, "b": 2}, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := d.Distance(0, tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestZScore_SingleStatistic(t *testing.T) {
	d := NewZScore("a")

	v, err := d.Distance(0, sumstat.Stats{"a": 1}, sumstat.Stats{"a": 0})
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))

	v, err = d.Distance(0, sumstat.Stats{"a": 0}, sumstat.Stats{"a": 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestZScore_AllMeasures(t *testing.T) {
	d := NewZScore()
	assert.Equal(t, "all", d.Config().Params["measures_to_use"])

	_, err := d.Distance(0, sumstat.Stats{"a": 1}, sumstat.Stats{"a": 1})
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, d.Initialize(0, []sumstat.Stats{{"b": 1, "a": 2}}, nil))
	assert.Equal(t, []string{"a", "b"}, d.Config().Params["measures_to_use"])

	v, err := d.Distance(0, sumstat.Stats{"a": 2, "b": 3}, sumstat.Stats{"a": 1, "b": 3})
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestZScore_EmptyMeasures(t *testing.T) {
	d := NewZScore()
	require.NoError(t, d.Initialize(0, []sumstat.Stats{{}}, nil))

	v, err := d.Distance(0, sumstat.Stats{"a": 1}, sumstat.Stats{"a": 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestZScore_MissingStatistic(t *testing.T) {
	d := NewZScore("a", "b")

	_, err := d.Distance(0, sumstat.Stats{"a": 1}, sumstat.Stats{"a": 1, "b": 1})
	var missing *ErrMissingStatistic
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "b", missing.Label)
}

func TestZScore_Config(t *testing.T) {
	cfg := NewZScore("a").Config()
	assert.Equal(t, "zscore", cfg.Name)
	assert.Equal(t, []string{"a"}, cfg.Params["measures_to_use"])
}

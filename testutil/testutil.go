package testutil

import (
	"maps"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/abcsmc/sumstat"
)

// Normal parameterizes a Gaussian statistic.
type Normal struct {
	Mean float64
	SD   float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed)) // nolint gosec
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// GaussianStats generates num statistics vectors. Each label is drawn
// independently from its Normal. Labels are visited in sorted order so the
// output is reproducible for a given seed.
func (r *RNG) GaussianStats(num int, dists map[string]Normal) []sumstat.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := slices.Sorted(maps.Keys(dists))
	batch := make([]sumstat.Stats, num)
	for i := range num {
		s := make(sumstat.Stats, len(labels))
		for _, label := range labels {
			d := dists[label]
			s[label] = d.Mean + r.rand.NormFloat64()*d.SD
		}
		batch[i] = s
	}
	return batch
}

// UniformStats generates num statistics vectors with values in [minVal, maxVal).
func (r *RNG) UniformStats(num int, labels []string, minVal, maxVal float64) []sumstat.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := slices.Sorted(slices.Values(labels))
	span := maxVal - minVal
	batch := make([]sumstat.Stats, num)
	for i := range num {
		s := make(sumstat.Stats, len(sorted))
		for _, label := range sorted {
			s[label] = minVal + r.rand.Float64()*span
		}
		batch[i] = s
	}
	return batch
}

// SparseStats returns a copy of batch where every label of every vector
// except the first is dropped with probability missingRate. The first
// vector is kept complete because it defines the label set for adaptive
// calibration.
func (r *RNG) SparseStats(batch []sumstat.Stats, missingRate float64) []sumstat.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]sumstat.Stats, len(batch))
	for i, s := range batch {
		if i == 0 {
			out[i] = s.Clone()
			continue
		}
		c := make(sumstat.Stats, len(s))
		for _, label := range s.Labels() {
			if r.rand.Float64() >= missingRate {
				c[label] = s[label]
			}
		}
		out[i] = c
	}
	return out
}

// ConstantStats returns num identical copies of s.
func ConstantStats(num int, s sumstat.Stats) []sumstat.Stats {
	batch := make([]sumstat.Stats, num)
	for i := range batch {
		batch[i] = s.Clone()
	}
	return batch
}

// Weights returns num positive weights in (0, 1].
func (r *RNG) Weights(num int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := make([]float64, num)
	for i := range w {
		w[i] = 1 - r.rand.Float64()
	}
	return w
}

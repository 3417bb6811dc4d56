package population

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/hupe1980/abcsmc/sumstat"
)

type options struct {
	logger *slog.Logger
}

// Option configures a Population.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to discard logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Population is the set of particles accepted in one generation.
type Population struct {
	particles []*Particle
	logger    *slog.Logger

	normalized         bool
	modelProbabilities map[int]float64

	// raw holds the weights as they were before the first normalization,
	// indexed like particles.
	raw []float64
}

// New returns a population over a copy of the particle slice. The
// particles themselves are shared, and NormalizeWeights rewrites their
// Weight fields. Nil entries are allowed and skipped with a warning.
func New(particles []*Particle, optFns ...Option) *Population {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Population{
		particles: slices.Clone(particles),
		logger:    o.logger,
	}
}

// Append adds a particle. A normalized population becomes unnormalized;
// the next normalization uses the current weight of p.
func (pop *Population) Append(p *Particle) {
	pop.particles = append(pop.particles, p)
	pop.normalized = false
}

// Merge returns a new population with the particles of pop followed by
// those of other. It is meant for unnormalized populations; the result is
// unnormalized and starts from the current particle weights.
func (pop *Population) Merge(other *Population) *Population {
	merged := slices.Concat(pop.particles, other.particles)
	return &Population{particles: merged, logger: pop.logger}
}

// Particles returns a copy of the particle slice.
func (pop *Population) Particles() []*Particle {
	return slices.Clone(pop.particles)
}

// Len returns the number of entries, nil particles included.
func (pop *Population) Len() int { return len(pop.particles) }

// IsNormalized reports whether NormalizeWeights has run since the last
// Append.
func (pop *Population) IsNormalized() bool { return pop.normalized }

// NormalizeWeights computes the model probabilities and rescales every
// particle weight so that the weights within each model sum to 1. It
// returns the number of nil particles skipped.
//
// Normalization always starts from the weights seen at the first call, so
// calling it again yields the same result. A model whose weights sum to
// zero gets probability 0 and its particles keep weight 0.
func (pop *Population) NormalizeWeights() (int, error) {
	for i := len(pop.raw); i < len(pop.particles); i++ {
		var w float64
		if p := pop.particles[i]; p != nil {
			w = p.Weight
		}
		pop.raw = append(pop.raw, w)
	}

	pt := NewPartition(pop.particles)
	skipped := pt.Skipped()
	if skipped > 0 {
		pop.logger.Warn("skipping empty particles", "count", skipped, "positions", pt.SkippedIndexes())
	}

	models := pt.Models()
	if len(models) == 0 {
		return skipped, ErrEmptyPopulation
	}

	modelTotals := make(map[int]float64, len(models))
	var total float64
	for _, m := range models {
		var sum float64
		for i := range pt.Indexes(m) {
			sum += pop.raw[i]
		}
		modelTotals[m] = sum
		total += sum
	}
	if !(total > 0) {
		return skipped, ErrZeroTotalWeight
	}

	probs := make(map[int]float64, len(models))
	for _, m := range models {
		mt := modelTotals[m]
		probs[m] = mt / total
		for i := range pt.Indexes(m) {
			if mt > 0 {
				pop.particles[i].Weight = pop.raw[i] / mt
			} else {
				pop.particles[i].Weight = 0
			}
		}
	}

	pop.modelProbabilities = probs
	pop.normalized = true
	return skipped, nil
}

// ModelProbabilities returns a copy of the model probabilities,
// normalizing first if needed.
func (pop *Population) ModelProbabilities() (map[int]float64, error) {
	if !pop.normalized {
		if _, err := pop.NormalizeWeights(); err != nil {
			return nil, err
		}
	}
	return maps.Clone(pop.modelProbabilities), nil
}

// WeightedDistances returns one row per distance entry of every particle,
// weighted by the particle weight times its model probability. The weight
// of a particle with several distances is split evenly among them, so the
// weight column sums to 1. This departs from the convention of repeating
// the full weight on every entry of a multi-sample particle; for particles
// with a single distance both rules agree.
func (pop *Population) WeightedDistances() (WeightedDistances, error) {
	if !pop.normalized {
		return WeightedDistances{}, ErrNotNormalized
	}

	var wd WeightedDistances
	for _, p := range pop.particles {
		if p == nil || len(p.Distances) == 0 {
			continue
		}
		w := p.Weight * pop.modelProbabilities[p.Model] / float64(len(p.Distances))
		for _, d := range p.Distances {
			wd.Distance = append(wd.Distance, d)
			wd.Weight = append(wd.Weight, w)
		}
	}
	return wd, nil
}

// UpdateDistances recomputes every particle distance from the matching
// statistics vector. Weights are not touched, so it may be called before
// or after normalization.
func (pop *Population) UpdateDistances(fn func(sumstat.Stats) (float64, error)) error {
	for i, p := range pop.particles {
		if p == nil {
			continue
		}
		if len(p.Distances) != len(p.SumStats) {
			return fmt.Errorf("particle %d: %w", i, ErrInconsistentParticle)
		}
		for j, s := range p.SumStats {
			d, err := fn(s)
			if err != nil {
				return fmt.Errorf("particle %d: %w", i, err)
			}
			p.Distances[j] = d
		}
	}
	return nil
}

// ByModel groups the particles by model index, preserving their order,
// and returns the number of nil particles skipped.
func (pop *Population) ByModel() (map[int][]*Particle, int) {
	pt := NewPartition(pop.particles)
	if n := pt.Skipped(); n > 0 {
		pop.logger.Warn("skipping empty particles", "count", n, "positions", pt.SkippedIndexes())
	}

	out := make(map[int][]*Particle, len(pt.Models()))
	for _, m := range pt.Models() {
		ps := make([]*Particle, 0, pt.Count(m))
		for i := range pt.Indexes(m) {
			ps = append(ps, pop.particles[i])
		}
		out[m] = ps
	}
	return out, pt.Skipped()
}

// Summary describes a population.
type Summary struct {
	Particles          int             `json:"particles"`
	Skipped            int             `json:"skipped"`
	Models             []int           `json:"models"`
	Normalized         bool            `json:"normalized"`
	ModelProbabilities map[int]float64 `json:"model_probabilities,omitempty"`
}

// Summary returns a snapshot of the population state without normalizing.
func (pop *Population) Summary() Summary {
	pt := NewPartition(pop.particles)
	s := Summary{
		Particles:  len(pop.particles) - pt.Skipped(),
		Skipped:    pt.Skipped(),
		Models:     pt.Models(),
		Normalized: pop.normalized,
	}
	if pop.normalized {
		s.ModelProbabilities = maps.Clone(pop.modelProbabilities)
	}
	return s
}

package population

import (
	"maps"
	"slices"

	"github.com/hupe1980/abcsmc/sumstat"
)

// Parameter is the parameter record of a particle. Its contents are
// opaque to this package.
type Parameter map[string]float64

// Clone returns a copy.
func (p Parameter) Clone() Parameter {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Particle is an accepted parameter sample.
//
// Distances and SumStats have the same length (at least one); more than
// one entry means several simulations were run for the same parameter.
type Particle struct {
	Model     int             `json:"m"`
	Parameter Parameter       `json:"parameter"`
	Weight    float64         `json:"weight"`
	Distances []float64       `json:"distance_list"`
	SumStats  []sumstat.Stats `json:"sum_stat_list"`
}

// Equal reports whether all fields of p and o are equal.
func (p *Particle) Equal(o *Particle) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Model == o.Model &&
		p.Weight == o.Weight &&
		maps.Equal(p.Parameter, o.Parameter) &&
		slices.Equal(p.Distances, o.Distances) &&
		statsEqual(p.SumStats, o.SumStats)
}

// Clone returns a deep copy.
func (p *Particle) Clone() *Particle {
	if p == nil {
		return nil
	}
	return &Particle{
		Model:     p.Model,
		Parameter: p.Parameter.Clone(),
		Weight:    p.Weight,
		Distances: slices.Clone(p.Distances),
		SumStats:  sumstat.CloneAll(p.SumStats),
	}
}

// FullInfoParticle is a Particle that also carries every simulated
// statistics vector, including rejected draws, and its acceptance flag.
type FullInfoParticle struct {
	Particle
	AllSumStats []sumstat.Stats `json:"all_sum_stat_list"`
	Accepted    bool            `json:"accepted"`
}

// Equal reports whether the particle fields and AllSumStats are equal.
// The acceptance flag is not compared.
func (p *FullInfoParticle) Equal(o *FullInfoParticle) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Particle.Equal(&o.Particle) && statsEqual(p.AllSumStats, o.AllSumStats)
}

// ToParticle returns a copy of the particle fields, dropping AllSumStats
// and Accepted. p is not modified.
func (p *FullInfoParticle) ToParticle() *Particle {
	if p == nil {
		return nil
	}
	return p.Particle.Clone()
}

func statsEqual(a, b []sumstat.Stats) bool {
	return slices.EqualFunc(a, b, func(x, y sumstat.Stats) bool { return x.Equal(y) })
}

package distance

import (
	"math"

	"github.com/hupe1980/abcsmc/sumstat"
)

// PNorm is the weighted p-norm
//
//	d(x, y) = (sum_i |w_i (x_i - y_i)|^p)^(1/p)
//
// or max_i |w_i (x_i - y_i)| for p = +Inf. The sum runs over the labels of
// the weight entry; a label missing from x or y contributes 0.
//
// Without explicit weights, Initialize (or InitializeUniform) must assign
// uniform weights before the first evaluation.
type PNorm struct {
	p       float64
	weights *WeightTable
}

// NewPNorm returns a weighted p-norm. p must be >= 1; math.Inf(1) selects
// the maximum norm.
func NewPNorm(p float64, optFns ...Option) (*PNorm, error) {
	if err := validateExponent(p); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	wt := o.weights
	if wt == nil {
		wt = NewWeightTable(nil)
	}
	return &PNorm{p: p, weights: wt}, nil
}

func validateExponent(p float64) error {
	if math.IsNaN(p) || p < 1 {
		return &ErrInvalidExponent{P: p}
	}
	return nil
}

// P returns the exponent.
func (d *PNorm) P() float64 { return d.p }

// Weights returns a copy of the weight table.
func (d *PNorm) Weights() *WeightTable { return d.weights.Clone() }

// RequiresInitialize reports whether weights still have to be assigned.
func (d *PNorm) RequiresInitialize() bool { return d.weights.Len() == 0 }

// Initialize assigns weight 1 to every label of the first sample, unless
// weights were supplied at construction.
func (d *PNorm) Initialize(t int, sample []sumstat.Stats, _ sumstat.Stats) error {
	if d.weights.Len() > 0 {
		return nil
	}
	if len(sample) == 0 {
		return ErrEmptySample
	}
	d.InitializeUniform(t, sample[0].Labels())
	return nil
}

// InitializeUniform assigns weight 1 to each label at generation t.
func (d *PNorm) InitializeUniform(t int, labels []string) {
	w := make(Weights, len(labels))
	for _, label := range labels {
		w[label] = 1
	}
	d.weights.Set(t, w)
}

// Update does nothing; PNorm weights are fixed.
func (d *PNorm) Update(int, []sumstat.Stats, sumstat.Stats) (bool, error) { return false, nil }

// ConfigureSampler does nothing.
func (d *PNorm) ConfigureSampler(Sampler) {}

// Distance implements Distance.
func (d *PNorm) Distance(t int, x, y sumstat.Stats) (float64, error) {
	w, _, ok := d.weights.At(t)
	if !ok {
		return 0, ErrNotInitialized
	}
	return pnorm(d.p, w, x, y), nil
}

// Config implements Distance.
func (d *PNorm) Config() Config {
	return Config{
		Name: KindPNorm.String(),
		Params: map[string]any{
			"p": formatExponent(d.p),
			"w": d.weights.Map(),
		},
	}
}

func pnorm(p float64, w Weights, x, y sumstat.Stats) float64 {
	labels := w.Labels()
	if math.IsInf(p, 1) {
		var m float64
		for _, label := range labels {
			xv, okx := x[label]
			yv, oky := y[label]
			if !okx || !oky {
				continue
			}
			m = math.Max(m, math.Abs(w[label]*(xv-yv)))
		}
		return m
	}

	var sum float64
	for _, label := range labels {
		xv, okx := x[label]
		yv, oky := y[label]
		if !okx || !oky {
			continue
		}
		sum += math.Pow(math.Abs(w[label]*(xv-yv)), p)
	}
	return math.Pow(sum, 1/p)
}

// formatExponent keeps +Inf encodable in JSON snapshots.
func formatExponent(p float64) any {
	if math.IsInf(p, 1) {
		return "inf"
	}
	return p
}

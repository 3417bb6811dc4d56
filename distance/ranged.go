package distance

import (
	"math"

	"github.com/hupe1980/abcsmc/scale"
	"github.com/hupe1980/abcsmc/sumstat"
	"gonum.org/v1/gonum/floats"
)

// DefaultPercentile is the lower percentile used by NewPercentile when
// none is given. The upper margin is 100 - DefaultPercentile.
const DefaultPercentile = 20.0

// Margin computes the lower and upper bounds of a statistic's range from
// its calibration values.
type Margin struct {
	Name   string
	Lower  func(values []float64) float64
	Upper  func(values []float64) float64
	Params map[string]any
}

// MinMax uses the sample minimum and maximum.
func MinMax() Margin {
	return Margin{
		Name:  KindMinMax.String(),
		Lower: floats.Min,
		Upper: floats.Max,
	}
}

// Percentile uses the p-th and (100-p)-th percentiles. p must be in [0, 50).
func Percentile(p float64) (Margin, error) {
	if math.IsNaN(p) || p < 0 || p >= 50 {
		return Margin{}, &ErrInvalidPercentile{Percentile: p}
	}
	return Margin{
		Name:   KindPercentile.String(),
		Lower:  func(v []float64) float64 { return scale.Percentile(v, p) },
		Upper:  func(v []float64) float64 { return scale.Percentile(v, 100-p) },
		Params: map[string]any{"percentile": p},
	}, nil
}

// Range normalizes absolute deviations by a calibrated range
//
//	d(x, y) = sum_{i in M} |x_i - y_i| / (u_i - l_i)
//
// A zero-width range contributes 0 for equal values and +Inf otherwise.
type Range struct {
	measureList
	margin        Margin
	normalization map[string]float64
}

// NewRange returns a range-normalized distance with the given margin
// strategy over measures, or over all labels of the calibration sample
// when measures is empty.
func NewRange(margin Margin, measures ...string) *Range {
	return &Range{measureList: newMeasureList(measures), margin: margin}
}

// NewMinMax returns a Range using MinMax margins.
func NewMinMax(measures ...string) *Range {
	return NewRange(MinMax(), measures...)
}

// NewPercentile returns a Range using Percentile(p) margins.
func NewPercentile(p float64, measures ...string) (*Range, error) {
	m, err := Percentile(p)
	if err != nil {
		return nil, err
	}
	return NewRange(m, measures...), nil
}

// RequiresInitialize returns true.
func (d *Range) RequiresInitialize() bool { return true }

// Initialize resolves the label subset and computes the range of every
// measure over the sample.
func (d *Range) Initialize(_ int, sample []sumstat.Stats, _ sumstat.Stats) error {
	if len(sample) == 0 {
		return ErrEmptySample
	}
	if err := d.resolve(sample); err != nil {
		return err
	}
	measures, _ := d.measures()

	norm := make(map[string]float64, len(measures))
	for _, label := range measures {
		col := make([]float64, len(sample))
		for i, s := range sample {
			v, ok := s[label]
			if !ok {
				return &ErrMissingStatistic{Label: label}
			}
			col[i] = v
		}
		norm[label] = d.margin.Upper(col) - d.margin.Lower(col)
	}
	d.normalization = norm
	return nil
}

// Update does nothing.
func (d *Range) Update(int, []sumstat.Stats, sumstat.Stats) (bool, error) { return false, nil }

// ConfigureSampler does nothing.
func (d *Range) ConfigureSampler(Sampler) {}

// Normalization returns the calibrated range per measure, or nil before
// Initialize.
func (d *Range) Normalization() map[string]float64 {
	if d.normalization == nil {
		return nil
	}
	out := make(map[string]float64, len(d.normalization))
	for k, v := range d.normalization {
		out[k] = v
	}
	return out
}

// Distance implements Distance.
func (d *Range) Distance(_ int, x, y sumstat.Stats) (float64, error) {
	if d.normalization == nil {
		return 0, ErrNotInitialized
	}
	measures, err := d.measures()
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, label := range measures {
		xv, yv, err := values(label, x, y)
		if err != nil {
			return 0, err
		}
		diff := math.Abs(xv - yv)
		width := d.normalization[label]
		switch {
		case width != 0:
			sum += diff / width
		case diff != 0:
			sum = math.Inf(1)
		}
	}
	return sum, nil
}

// Config implements Distance.
func (d *Range) Config() Config {
	params := d.params()
	params["normalization"] = d.Normalization()
	for k, v := range d.margin.Params {
		params[k] = v
	}
	return Config{Name: d.margin.Name, Params: params}
}

package distance

import (
	"log/slog"
	"math"

	"github.com/hupe1980/abcsmc/scale"
	"github.com/hupe1980/abcsmc/sumstat"
)

// zeroScaleTolerance is the absolute tolerance under which a scale counts
// as zero.
const zeroScaleTolerance = 1e-8

// AdaptivePNorm is a weighted p-norm whose weights are the inverse robust
// scales of the statistics, recalibrated from simulated samples.
//
// In adaptive mode the weights are recomputed by every Update and the
// sampler is asked to keep rejected statistics. Otherwise they are
// calibrated once by Initialize and Update reports no change.
type AdaptivePNorm struct {
	pnorm    *PNorm
	adaptive bool
	scale    scale.Estimator
	logger   *slog.Logger
}

// NewAdaptivePNorm returns an adaptive p-norm. See WithAdaptive, WithScale
// and WithLogger.
func NewAdaptivePNorm(p float64, optFns ...Option) (*AdaptivePNorm, error) {
	if err := validateExponent(p); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	return &AdaptivePNorm{
		pnorm:    &PNorm{p: p, weights: NewWeightTable(nil)},
		adaptive: o.adaptive,
		scale:    o.scale,
		logger:   o.logger,
	}, nil
}

// Adaptive reports whether weights are recalibrated every generation.
func (d *AdaptivePNorm) Adaptive() bool { return d.adaptive }

// Weights returns a copy of the weight table.
func (d *AdaptivePNorm) Weights() *WeightTable { return d.pnorm.Weights() }

// RequiresInitialize returns true.
func (d *AdaptivePNorm) RequiresInitialize() bool { return true }

// ConfigureSampler requests rejected statistics in adaptive mode.
func (d *AdaptivePNorm) ConfigureSampler(s Sampler) {
	if d.adaptive && s != nil {
		s.SetRecordRejected(true)
	}
}

// Initialize performs the first calibration.
func (d *AdaptivePNorm) Initialize(t int, sample []sumstat.Stats, x0 sumstat.Stats) error {
	return d.calibrate(t, sample, x0)
}

// Update recalibrates in adaptive mode and reports true; otherwise it
// reports false without touching the weights.
func (d *AdaptivePNorm) Update(t int, all []sumstat.Stats, x0 sumstat.Stats) (bool, error) {
	if !d.adaptive {
		return false, nil
	}
	if err := d.calibrate(t, all, x0); err != nil {
		return false, err
	}
	return true, nil
}

// Distance implements Distance.
func (d *AdaptivePNorm) Distance(t int, x, y sumstat.Stats) (float64, error) {
	return d.pnorm.Distance(t, x, y)
}

// Config implements Distance.
func (d *AdaptivePNorm) Config() Config {
	return Config{
		Name: KindAdaptivePNorm.String(),
		Params: map[string]any{
			"p":          formatExponent(d.pnorm.p),
			"adaptive":   d.adaptive,
			"scale_type": d.scale.Name,
		},
	}
}

// calibrate computes inverse-scale weights over the labels of the first
// sample, normalizes them to mean 1 and stores them under t.
func (d *AdaptivePNorm) calibrate(t int, all []sumstat.Stats, x0 sumstat.Stats) error {
	if len(all) == 0 {
		return ErrEmptySample
	}

	w := make(Weights, len(all[0]))
	for _, label := range all[0].Labels() {
		var s float64
		if obs, ok := x0[label]; ok {
			s = d.scale.Estimate(sumstat.Column(all, label), obs)
		}
		if math.Abs(s) <= zeroScaleTolerance || math.IsNaN(s) {
			// Unobserved statistic or identical simulations.
			w[label] = 0
			continue
		}
		w[label] = 1 / s
	}

	if mean := w.Mean(); mean > 0 {
		for label := range w {
			w[label] /= mean
		}
	}

	d.pnorm.weights.Set(t, w)
	d.logger.Debug("update distance weights", "t", t, "weights", w)
	return nil
}

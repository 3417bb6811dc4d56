package distance

import (
	"log/slog"

	"github.com/hupe1980/abcsmc/scale"
)

type options struct {
	weights  *WeightTable
	adaptive bool
	scale    scale.Estimator
	logger   *slog.Logger
}

// Option configures distance constructors. Options that do not apply to a
// variant are ignored by it.
type Option func(*options)

// WithWeights sets a fixed weight table for PNorm.
func WithWeights(wt *WeightTable) Option {
	return func(o *options) {
		o.weights = wt.Clone()
	}
}

// WithAdaptive selects the AdaptivePNorm mode. True (the default)
// recalibrates every generation; false calibrates once in Initialize.
func WithAdaptive(adaptive bool) Option {
	return func(o *options) {
		o.adaptive = adaptive
	}
}

// WithScale sets the scale estimator for AdaptivePNorm.
// The default is scale.MAD.
func WithScale(est scale.Estimator) Option {
	return func(o *options) {
		if est.Estimate != nil {
			o.scale = est
		}
	}
}

// WithLogger configures structured logging. Pass nil to discard logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		adaptive: true,
		scale:    scale.MAD,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

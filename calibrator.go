package abcsmc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/population"
	"github.com/hupe1980/abcsmc/snapshot"
	"github.com/hupe1980/abcsmc/sumstat"
)

// weighted is implemented by distances that keep a per-generation weight
// table (PNorm, AdaptivePNorm).
type weighted interface {
	Weights() *distance.WeightTable
}

// Calibrator drives a distance through the generations of one ABC-SMC run
// and records the outcome of each generation.
//
// All methods are safe for concurrent use. Evaluations may run in
// parallel; calibration calls exclude each other and any evaluation.
type Calibrator struct {
	mu sync.RWMutex

	d       distance.Distance
	x0      sumstat.Stats
	opts    options
	logger  *Logger
	metrics MetricsCollector

	samplerConfigured bool
	initialized       bool
	hasGeneration     bool
	lastGeneration    int

	hasFingerprint  bool
	lastFingerprint uint64
	pendingChange   bool
}

// New returns a Calibrator for d and the observed statistics x0.
func New(d distance.Distance, x0 sumstat.Stats, optFns ...Option) (*Calibrator, error) {
	if d == nil {
		return nil, ErrNilDistance
	}
	o := applyOptions(optFns)
	return &Calibrator{
		d:       d,
		x0:      x0.Clone(),
		opts:    o,
		logger:  o.logger.WithDistance(d.Config().Name),
		metrics: o.metricsCollector,
	}, nil
}

// Distance returns the managed distance.
func (c *Calibrator) Distance() distance.Distance { return c.d }

// Logger returns the logger, scoped to the distance.
func (c *Calibrator) Logger() *Logger { return c.logger }

// Observed returns a copy of the observed statistics.
func (c *Calibrator) Observed() sumstat.Stats { return c.x0.Clone() }

// ConfigureSampler lets the distance adjust the sampler before sampling
// starts. It may be called once.
func (c *Calibrator) ConfigureSampler(s distance.Sampler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.samplerConfigured {
		return ErrSamplerConfigured
	}
	c.d.ConfigureSampler(s)
	c.samplerConfigured = true
	return nil
}

// RequiresInitialize reports whether Initialize must run before the first
// evaluation.
func (c *Calibrator) RequiresInitialize() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.d.RequiresInitialize() && !c.initialized
}

// Initialize calibrates the distance from the generation-t sample. It runs
// exactly once and only for distances that require it.
func (c *Calibrator) Initialize(ctx context.Context, t int, sample []sumstat.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return ErrAlreadyInitialized
	}
	if !c.d.RequiresInitialize() {
		return ErrInitializeNotRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := c.d.Initialize(t, sample, c.x0)
	c.metrics.RecordUpdate(t, err == nil, time.Since(start), err)
	c.logger.LogInitialize(ctx, t, len(sample), err)
	if err != nil {
		return err
	}

	c.initialized = true
	c.hasGeneration = true
	c.lastGeneration = t
	return nil
}

// Update recalibrates the distance from all statistics simulated in
// generation t, rejected ones included. Generations must strictly
// increase. It reports whether the distance changed.
func (c *Calibrator) Update(ctx context.Context, t int, all []sumstat.Stats) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.d.RequiresInitialize() && !c.initialized {
		return false, ErrNotInitialized
	}
	if c.hasGeneration && t <= c.lastGeneration {
		return false, &ErrGenerationOrder{Last: c.lastGeneration, Got: t}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	start := time.Now()
	changed, err := c.d.Update(t, all, c.x0)
	c.metrics.RecordUpdate(t, changed, time.Since(start), err)
	c.logger.LogUpdate(ctx, t, len(all), changed, err)
	if err != nil {
		return false, err
	}

	c.hasGeneration = true
	c.lastGeneration = t
	c.pendingChange = c.pendingChange || changed
	return changed, nil
}

// Evaluate returns the distance of every x in xs to the observed
// statistics at generation t.
func (c *Calibrator) Evaluate(ctx context.Context, t int, xs []sumstat.Stats) ([]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := time.Now()
	out, err := distance.EvaluateBatch(ctx, c.d, t, xs, c.x0, c.opts.parallelism)
	c.metrics.RecordDistance(len(xs), time.Since(start), err)
	return out, err
}

// DistanceFunc returns the distance to the observed statistics at
// generation t as a function, suitable for population.UpdateDistances.
// The function must not be called concurrently with calibration.
func (c *Calibrator) DistanceFunc(t int) func(sumstat.Stats) (float64, error) {
	return func(x sumstat.Stats) (float64, error) {
		return c.d.Distance(t, x, c.x0)
	}
}

// Finalize normalizes the population of generation t (if not done yet)
// and builds its snapshot record, which is persisted when a snapshot
// store is configured. The record is marked changed when an Update since
// the previous Finalize changed the distance or its configuration differs.
func (c *Calibrator) Finalize(ctx context.Context, t int, pop *population.Population) (*snapshot.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !pop.IsNormalized() {
		start := time.Now()
		skipped, err := pop.NormalizeWeights()
		c.metrics.RecordNormalize(pop.Len(), skipped, time.Since(start), err)
		c.logger.LogNormalize(ctx, t, pop.Len(), skipped, err)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", t, err)
		}
	}

	probs, err := pop.ModelProbabilities()
	if err != nil {
		return nil, err
	}
	wd, err := pop.WeightedDistances()
	if err != nil {
		return nil, err
	}

	cfg := c.d.Config()
	fp, err := distance.Fingerprint(cfg)
	if err != nil {
		return nil, err
	}

	rec := &snapshot.Record{
		Generation:         t,
		Distance:           cfg,
		Fingerprint:        fp,
		ModelProbabilities: probs,
		Weighted:           wd,
		Changed:            c.pendingChange || (c.hasFingerprint && fp != c.lastFingerprint),
	}
	if w, ok := c.d.(weighted); ok {
		if ws, _, ok := w.Weights().At(t); ok {
			rec.Weights = ws
		}
	}

	if c.opts.snapshots != nil {
		err := c.opts.snapshots.Save(ctx, rec)
		c.logger.LogSnapshot(ctx, t, err)
		if err != nil {
			return nil, err
		}
	}

	c.hasFingerprint = true
	c.lastFingerprint = fp
	c.pendingChange = false
	return rec, nil
}

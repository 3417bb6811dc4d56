package abcsmc

import (
	"log/slog"

	"github.com/hupe1980/abcsmc/snapshot"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	snapshots        *snapshot.Store
	parallelism      int
}

// Option configures a Calibrator.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &abcsmc.BasicMetricsCollector{}
//	cal, _ := abcsmc.New(d, x0, abcsmc.WithMetricsCollector(metrics))
//	// ... run generations ...
//	stats := metrics.GetStats()
//	fmt.Printf("Updates: %d, changed: %d\n", stats.UpdateCount, stats.UpdateChanged)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := abcsmc.NewJSONLogger(slog.LevelInfo)
//	cal, _ := abcsmc.New(d, x0, abcsmc.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSnapshotStore makes Finalize persist a record per generation.
func WithSnapshotStore(store *snapshot.Store) Option {
	return func(o *options) {
		o.snapshots = store
	}
}

// WithParallelism bounds the number of concurrent distance evaluations in
// Evaluate. Values <= 0 mean unbounded. The default is 1.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		parallelism:      1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

// Package abcsmc provides the distance calibration and population
// bookkeeping core of an ABC-SMC (approximate Bayesian computation,
// sequential Monte Carlo) sampler.
//
// The sampler loop itself lives outside this module. Each generation it
// simulates summary statistics, measures their distance to the observed
// data and accepts particles below a threshold. This module supplies the
// pieces it depends on:
//
//   - distance: distance functions, including the adaptive weighted p-norm
//     that recalibrates its statistic weights from each generation
//   - population: accepted particles, weight normalization and the weighted
//     distance table used for threshold selection
//   - snapshot: per-generation records on a blobstore backend
//
// # Quick Start
//
//	d, _ := distance.NewAdaptivePNorm(2)
//	cal, _ := abcsmc.New(d, observed, abcsmc.WithLogger(abcsmc.NewTextLogger(slog.LevelInfo)))
//
//	cal.ConfigureSampler(sampler)          // once, before sampling
//	cal.Initialize(ctx, 0, priorSample)    // generation 0
//	ds, _ := cal.Evaluate(ctx, 0, simulated)
//	rec, _ := cal.Finalize(ctx, 0, pop)    // normalize and record
//
//	changed, _ := cal.Update(ctx, 1, allSimulated) // later generations
//
// # Lifecycle
//
// The Calibrator enforces the calling contract of a distance: the sampler
// is configured at most once, Initialize runs exactly once and only for
// distances that require it, and Update runs at most once per generation
// with strictly increasing generation indexes.
//
// # Persistence
//
// With WithSnapshotStore, Finalize writes one snapshot.Record per
// generation. Stores can be backed by memory, the local filesystem, S3 or
// MinIO (see package blobstore).
package abcsmc

// Package distance measures how close simulated summary statistics are to
// the observed ones.
//
// Every variant implements the Distance interface. Besides the distance law
// itself, a variant may need calibration from a sample (Initialize), may
// recalibrate every generation (Update), and may ask the sampler to retain
// rejected statistics (ConfigureSampler). Those hooks are invoked by the
// orchestrator, never by the distance itself.
//
// # Supported Variants
//
//   - NoDistance: fails when called (simulator decides acceptance)
//   - FuncDistance: wraps a plain func(x, y) float64
//   - PNorm: weighted p-norm over a generation-indexed weight table
//   - AdaptivePNorm: p-norm whose weights are recalibrated from scale estimates
//   - ZScore: mean relative deviation over a label subset
//   - PCA: Euclidean distance in whitened coordinates
//   - Range: deviation normalized by a calibrated range (MinMax, Percentile)
//   - AcceptAll: constant -1
//   - Identity: passes a simulator-reported distance through
//
// # Usage
//
//	d, _ := distance.NewAdaptivePNorm(2, distance.WithScale(scale.MAD))
//	d.ConfigureSampler(sampler)
//	_ = d.Initialize(0, priorSample, x0)
//	v, _ := d.Distance(0, x, x0)
//	changed, _ := d.Update(1, allStats, x0)
package distance

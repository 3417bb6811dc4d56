// Package testutil provides testing utilities for abcsmc.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG that generates batches of summary
// statistics with controllable spread and missing labels, plus raw
// particle weights.
//
// # Random Statistics Generation
//
//	rng := testutil.NewRNG(seed)
//	batch := rng.GaussianStats(100, map[string]testutil.Normal{
//	    "a": {Mean: 0, SD: 1},
//	    "b": {Mean: 5, SD: 10},
//	})
//	sparse := rng.SparseStats(batch, 0.3) // ~30% of labels dropped
package testutil

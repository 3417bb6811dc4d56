// Package population holds the particles accepted in one generation and
// derives their normalized weights.
//
// After NormalizeWeights two normalizations hold at the same time: the
// model probabilities sum to 1, and within each model the particle
// weights sum to 1. WeightedDistances combines both into a single
// distance/weight table whose weight column sums to 1.
//
// A Population is not safe for concurrent mutation; callers serialize
// access per generation.
package population

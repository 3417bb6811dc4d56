package population

import "errors"

var (
	// ErrEmptyPopulation is returned when normalizing a population without
	// any (non-nil) particles.
	ErrEmptyPopulation = errors.New("population: no particles")

	// ErrZeroTotalWeight is returned when the particle weights sum to zero.
	ErrZeroTotalWeight = errors.New("population: total weight is zero")

	// ErrNotNormalized is returned by operations that read model
	// probabilities before NormalizeWeights ran.
	ErrNotNormalized = errors.New("population: weights not normalized")

	// ErrInconsistentParticle is returned when a particle's distances and
	// statistics have different lengths.
	ErrInconsistentParticle = errors.New("population: distances and statistics differ in length")
)

package distance

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCallable is returned by NoDistance, which must never be evaluated.
	ErrNotCallable = errors.New("distance: not intended to be called")

	// ErrNotInitialized is returned when a distance that needs calibration is
	// evaluated before Initialize.
	ErrNotInitialized = errors.New("distance: not initialized")

	// ErrEmptySample is returned when calibration receives no samples.
	ErrEmptySample = errors.New("distance: empty sample")

	// ErrSingularCovariance is returned when the calibration sample of a PCA
	// distance has a non-positive-definite covariance.
	ErrSingularCovariance = errors.New("distance: singular covariance")
)

// ErrInvalidExponent indicates a p-norm exponent below 1.
type ErrInvalidExponent struct {
	P float64
}

func (e *ErrInvalidExponent) Error() string {
	return fmt.Sprintf("distance: invalid p-norm exponent %v: must be p >= 1", e.P)
}

// ErrInvalidPercentile indicates a percentile margin outside [0, 50).
type ErrInvalidPercentile struct {
	Percentile float64
}

func (e *ErrInvalidPercentile) Error() string {
	return fmt.Sprintf("distance: invalid percentile %v: must be in [0, 50)", e.Percentile)
}

// ErrMissingStatistic indicates a statistics vector lacking a label the
// distance requires.
type ErrMissingStatistic struct {
	Label string
}

func (e *ErrMissingStatistic) Error() string {
	return fmt.Sprintf("distance: missing summary statistic %q", e.Label)
}

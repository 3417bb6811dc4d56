package abcsmc

import (
	"errors"
	"fmt"

	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/population"
)

var (
	// ErrNilDistance is returned by New for a nil distance.
	ErrNilDistance = errors.New("distance must not be nil")

	// ErrSamplerConfigured is returned when ConfigureSampler is called twice.
	ErrSamplerConfigured = errors.New("sampler already configured")

	// ErrInitializeNotRequired is returned by Initialize for distances that
	// do not need calibration.
	ErrInitializeNotRequired = errors.New("distance does not require initialization")

	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("distance already initialized")

	// Re-exported for callers that only import this package.
	ErrNotInitialized  = distance.ErrNotInitialized
	ErrNotCallable     = distance.ErrNotCallable
	ErrEmptyPopulation = population.ErrEmptyPopulation
	ErrZeroTotalWeight = population.ErrZeroTotalWeight
)

// ErrGenerationOrder indicates a generation index that does not follow the
// last calibrated generation.
type ErrGenerationOrder struct {
	Last int
	Got  int
}

func (e *ErrGenerationOrder) Error() string {
	return fmt.Sprintf("generation %d does not follow generation %d", e.Got, e.Last)
}

package distance

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/hupe1980/abcsmc/codec"
	"github.com/hupe1980/abcsmc/sumstat"
)

// Distance evaluates the closeness of simulated statistics x to the
// observed statistics x0 at generation t.
//
// Implementations that need no calibration embed Base to inherit the
// default lifecycle hooks.
type Distance interface {
	// Distance evaluates the distance at generation t.
	Distance(t int, x, x0 sumstat.Stats) (float64, error)

	// RequiresInitialize reports whether Initialize must be called once
	// before the first evaluation. The orchestrator must not call
	// Initialize when this is false.
	RequiresInitialize() bool

	// Initialize calibrates the distance from a generation-0 sample.
	Initialize(t int, sample []sumstat.Stats, x0 sumstat.Stats) error

	// Update recalibrates from all statistics simulated in generation t,
	// rejected ones included if requested. It reports whether the distance
	// changed, which invalidates thresholds derived from old distances.
	Update(t int, all []sumstat.Stats, x0 sumstat.Stats) (bool, error)

	// ConfigureSampler lets the distance request sampler behaviour before
	// sampling starts.
	ConfigureSampler(s Sampler)

	// Config returns a configuration snapshot.
	Config() Config
}

// Sampler is the part of the sampler a distance may configure.
type Sampler interface {
	// SetRecordRejected requests that statistics of rejected particles are
	// retained and passed to Update.
	SetRecordRejected(record bool)
}

// Base provides the default lifecycle hooks: no calibration, no updates,
// no sampler configuration.
type Base struct{}

// RequiresInitialize returns false.
func (Base) RequiresInitialize() bool { return false }

// Initialize does nothing.
func (Base) Initialize(int, []sumstat.Stats, sumstat.Stats) error { return nil }

// Update does nothing and reports no change.
func (Base) Update(int, []sumstat.Stats, sumstat.Stats) (bool, error) { return false, nil }

// ConfigureSampler does nothing.
func (Base) ConfigureSampler(Sampler) {}

// Kind identifies a distance variant.
type Kind int

const (
	KindNone Kind = iota
	KindFunc
	KindPNorm
	KindAdaptivePNorm
	KindZScore
	KindPCA
	KindMinMax
	KindPercentile
	KindAcceptAll
	KindIdentity
)

var kindNames = map[Kind]string{
	KindNone:          "none",
	KindFunc:          "func",
	KindPNorm:         "pnorm",
	KindAdaptivePNorm: "adaptive_pnorm",
	KindZScore:        "zscore",
	KindPCA:           "pca",
	KindMinMax:        "minmax",
	KindPercentile:    "percentile",
	KindAcceptAll:     "accept_all",
	KindIdentity:      "identity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unsupported distance kind: %q", name)
}

// Config is a configuration snapshot of a distance: its name plus scalar or
// map-valued parameters. It is meant for logging and persistence, not for
// reconstruction.
type Config struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// JSON encodes the snapshot with the default codec.
func (c Config) JSON() ([]byte, error) {
	return codec.Default.Marshal(c)
}

// Fingerprint returns a stable 64-bit hash of the encoded snapshot. Two
// snapshots with equal names and parameters have equal fingerprints.
func Fingerprint(c Config) (uint64, error) {
	b, err := c.JSON()
	if err != nil {
		return 0, fmt.Errorf("fingerprint %s: %w", c.Name, err)
	}
	return xxhash.Sum64(b), nil
}

package distance

import (
	"math"

	"github.com/hupe1980/abcsmc/sumstat"
)

// ZScore is the mean relative deviation from the observed value
//
//	d(x, y) = 1/|M| * sum_{i in M} |x_i - y_i| / |y_i|
//
// with 0/0 = 0 and nonzero/0 = +Inf.
type ZScore struct {
	measureList
}

// NewZScore returns a z-score distance over measures, or over all labels
// of the calibration sample when measures is empty.
func NewZScore(measures ...string) *ZScore {
	return &ZScore{measureList: newMeasureList(measures)}
}

// RequiresInitialize returns true.
func (d *ZScore) RequiresInitialize() bool { return true }

// Initialize resolves the label subset.
func (d *ZScore) Initialize(_ int, sample []sumstat.Stats, _ sumstat.Stats) error {
	return d.resolve(sample)
}

// Update does nothing.
func (d *ZScore) Update(int, []sumstat.Stats, sumstat.Stats) (bool, error) { return false, nil }

// ConfigureSampler does nothing.
func (d *ZScore) ConfigureSampler(Sampler) {}

// Distance implements Distance.
func (d *ZScore) Distance(_ int, x, y sumstat.Stats) (float64, error) {
	measures, err := d.measures()
	if err != nil {
		return 0, err
	}
	if len(measures) == 0 {
		return 0, nil
	}

	var sum float64
	for _, label := range measures {
		xv, yv, err := values(label, x, y)
		if err != nil {
			return 0, err
		}
		sum += relativeDeviation(xv, yv)
	}
	return sum / float64(len(measures)), nil
}

// Config implements Distance.
func (d *ZScore) Config() Config {
	return Config{Name: KindZScore.String(), Params: d.params()}
}

func relativeDeviation(x, y float64) float64 {
	if y == 0 {
		if x == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs((x - y) / y)
}

package scale

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Func computes a scale from data. x0 is the observed value of the
// statistic; estimators that do not center on it ignore it.
type Func func(data []float64, x0 float64) float64

// Estimator is a scale function with a stable name, used in configuration
// snapshots and YAML configuration.
type Estimator struct {
	Name     string
	Estimate Func
}

var (
	// MAD is the median absolute deviation around the sample median.
	MAD = Estimator{Name: "median_absolute_deviation", Estimate: MedianAbsoluteDeviation}
	// SD is the population standard deviation.
	SD = Estimator{Name: "standard_deviation", Estimate: StandardDeviation}
	// CenteredMAD is the median absolute deviation around x0.
	CenteredMAD = Estimator{Name: "centered_median_absolute_deviation", Estimate: CenteredMedianAbsoluteDeviation}
	// CenteredSD is the standard deviation of absolute deviations from x0.
	CenteredSD = Estimator{Name: "centered_standard_deviation", Estimate: CenteredStandardDeviation}
	// Bias is the absolute bias of the sample mean against x0.
	Bias = Estimator{Name: "absolute_bias", Estimate: AbsoluteBias}
	// RMSE is the root mean squared error against x0.
	RMSE = Estimator{Name: "root_mean_squared_error", Estimate: RootMeanSquaredError}
)

var registry = []Estimator{MAD, SD, CenteredMAD, CenteredSD, Bias, RMSE}

// ByName returns a built-in estimator by its stable name.
func ByName(name string) (Estimator, bool) {
	for _, e := range registry {
		if e.Name == name {
			return e, true
		}
	}
	return Estimator{}, false
}

// Names returns the names of all built-in estimators.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.Name
	}
	return names
}

// MedianAbsoluteDeviation returns median(|data - median(data)|).
func MedianAbsoluteDeviation(data []float64, _ float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return Median(absDeviations(data, Median(data)))
}

// StandardDeviation returns the population standard deviation of data.
func StandardDeviation(data []float64, _ float64) float64 {
	if len(data) < 2 {
		return 0
	}
	_, sd := stat.PopMeanStdDev(data, nil)
	return sd
}

// CenteredMedianAbsoluteDeviation returns median(|data - x0|).
func CenteredMedianAbsoluteDeviation(data []float64, x0 float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return Median(absDeviations(data, x0))
}

// CenteredStandardDeviation returns std(|data - x0|).
func CenteredStandardDeviation(data []float64, x0 float64) float64 {
	return StandardDeviation(absDeviations(data, x0), x0)
}

// AbsoluteBias returns |mean(data) - x0|.
func AbsoluteBias(data []float64, x0 float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Abs(stat.Mean(data, nil) - x0)
}

// RootMeanSquaredError returns sqrt(bias^2 + std^2), the square root of the
// mean squared error of data against x0.
func RootMeanSquaredError(data []float64, x0 float64) float64 {
	bias := AbsoluteBias(data, x0)
	sd := StandardDeviation(data, x0)
	return math.Sqrt(bias*bias + sd*sd)
}

// Median returns the median of data, averaging the two middle values for
// even lengths. Empty data yields 0.
func Median(data []float64) float64 {
	return Percentile(data, 50)
}

// Percentile returns the q-th percentile (0 <= q <= 100) of data using
// linear interpolation between closest ranks: the value at fractional
// index q/100*(n-1) of the sorted data. Empty data yields 0.
func Percentile(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	if n == 1 {
		return sorted[0]
	}

	q = math.Min(math.Max(q, 0), 100)
	idx := q / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func absDeviations(data []float64, center float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = math.Abs(v - center)
	}
	return out
}

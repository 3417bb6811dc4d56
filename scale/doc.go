// Package scale provides robust per-statistic scale estimators.
//
// An estimator maps the simulated values of one summary statistic (and,
// for the centered variants, the observed value x0) to a non-negative
// dispersion. The adaptive p-norm distance inverts these scales into
// weights. A zero scale is a valid result: it signals that a statistic
// carries no usable spread and should be excluded from the distance.
//
// # Supported Estimators
//
//   - median_absolute_deviation: median(|data - median(data)|)
//   - standard_deviation: population standard deviation of data
//   - centered_median_absolute_deviation: median(|data - x0|)
//   - centered_standard_deviation: std(|data - x0|)
//   - absolute_bias: |mean(data) - x0|
//   - root_mean_squared_error: sqrt(bias^2 + std^2)
//
// # Usage
//
//	est, ok := scale.ByName("median_absolute_deviation")
//	s := est.Estimate([]float64{1, 2, 3, 4, 5}, 0) // 1.0
package scale

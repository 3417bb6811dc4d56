// Package sumstat defines the summary-statistics vector shared by distance
// functions and particles.
//
// A summary-statistics vector is a mapping from statistic label to value.
// It is not a fixed-width vector: labels may be present in one sample and
// absent in another. Absent labels are reported as absent (the second
// return value of Get), never as NaN.
package sumstat

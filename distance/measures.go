package distance

import (
	"slices"

	"github.com/hupe1980/abcsmc/sumstat"
)

// measureList is the label subset used by ZScore, PCA and Range. An empty
// request means "all labels", resolved from the first calibration sample.
type measureList struct {
	requested []string
	resolved  []string
}

func newMeasureList(measures []string) measureList {
	m := measureList{requested: slices.Clone(measures)}
	if len(measures) > 0 {
		m.resolved = slices.Clone(measures)
	}
	return m
}

func (m *measureList) resolve(sample []sumstat.Stats) error {
	if len(m.requested) > 0 {
		m.resolved = slices.Clone(m.requested)
		return nil
	}
	if len(sample) == 0 {
		return ErrEmptySample
	}
	m.resolved = append([]string{}, sample[0].Labels()...)
	return nil
}

func (m *measureList) measures() ([]string, error) {
	if m.resolved == nil {
		return nil, ErrNotInitialized
	}
	return m.resolved, nil
}

func (m *measureList) params() map[string]any {
	if m.resolved != nil {
		return map[string]any{"measures_to_use": slices.Clone(m.resolved)}
	}
	return map[string]any{"measures_to_use": "all"}
}

// values reads label from x and y.
func values(label string, x, y sumstat.Stats) (float64, float64, error) {
	xv, ok := x[label]
	if !ok {
		return 0, 0, &ErrMissingStatistic{Label: label}
	}
	yv, ok := y[label]
	if !ok {
		return 0, 0, &ErrMissingStatistic{Label: label}
	}
	return xv, yv, nil
}

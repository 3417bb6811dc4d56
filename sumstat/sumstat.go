package sumstat

import (
	"maps"
	"slices"
)

// Stats maps statistic labels to values.
type Stats map[string]float64

// Get returns the value for label and whether it is present.
func (s Stats) Get(label string) (float64, bool) {
	v, ok := s[label]
	return v, ok
}

// Has reports whether label is present.
func (s Stats) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Labels returns the labels of s in sorted order.
func (s Stats) Labels() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns a shallow copy of s. A nil Stats clones to nil.
func (s Stats) Clone() Stats {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Equal reports whether s and other hold the same labels with identical values.
func (s Stats) Equal(other Stats) bool {
	return maps.Equal(s, other)
}

// Vector returns the values of labels in order. The second return value is
// the first label missing from s, or "" when all are present.
func (s Stats) Vector(labels []string) ([]float64, string) {
	out := make([]float64, len(labels))
	for i, label := range labels {
		v, ok := s[label]
		if !ok {
			return nil, label
		}
		out[i] = v
	}
	return out, ""
}

// Column gathers the values of label across batch, skipping samples that
// lack it.
func Column(batch []Stats, label string) []float64 {
	out := make([]float64, 0, len(batch))
	for _, s := range batch {
		if v, ok := s[label]; ok {
			out = append(out, v)
		}
	}
	return out
}

// UnionLabels returns the sorted union of labels over batch.
func UnionLabels(batch []Stats) []string {
	seen := make(map[string]struct{})
	for _, s := range batch {
		for label := range s {
			seen[label] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// CloneAll deep-copies a batch.
func CloneAll(batch []Stats) []Stats {
	if batch == nil {
		return nil
	}
	out := make([]Stats, len(batch))
	for i, s := range batch {
		out[i] = s.Clone()
	}
	return out
}

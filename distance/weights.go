package distance

import (
	"maps"
	"slices"
)

// Weights maps statistic labels to non-negative weights.
type Weights map[string]float64

// Labels returns the labels in sorted order.
func (w Weights) Labels() []string {
	return slices.Sorted(maps.Keys(w))
}

// Mean returns the mean weight, or 0 for an empty vector.
func (w Weights) Mean() float64 {
	if len(w) == 0 {
		return 0
	}
	var sum float64
	for _, label := range w.Labels() {
		sum += w[label]
	}
	return sum / float64(len(w))
}

// WeightTable holds per-generation weights.
//
// Entries are never modified in place: Set stores a private copy, so a
// Weights value obtained from At stays valid after later generations are
// written. Reads of a generation that has no entry fall back to the entry
// of the largest generation present.
//
// WeightTable is not safe for concurrent mutation.
type WeightTable struct {
	entries map[int]Weights
}

// NewWeightTable returns a table populated with copies of entries.
func NewWeightTable(entries map[int]Weights) *WeightTable {
	wt := &WeightTable{entries: make(map[int]Weights, len(entries))}
	for t, w := range entries {
		wt.Set(t, w)
	}
	return wt
}

// Set stores a copy of w for generation t.
func (wt *WeightTable) Set(t int, w Weights) {
	if wt.entries == nil {
		wt.entries = make(map[int]Weights)
	}
	wt.entries[t] = maps.Clone(w)
}

// At returns the weights for generation t. If t has no entry, the entry of
// the maximum generation is returned. The second result is the generation
// actually used; ok is false only for an empty table.
func (wt *WeightTable) At(t int) (w Weights, used int, ok bool) {
	if wt == nil || len(wt.entries) == 0 {
		return nil, 0, false
	}
	if w, ok := wt.entries[t]; ok {
		return w, t, true
	}
	maxT, _ := wt.MaxGeneration()
	return wt.entries[maxT], maxT, true
}

// MaxGeneration returns the largest generation present.
func (wt *WeightTable) MaxGeneration() (int, bool) {
	if wt == nil || len(wt.entries) == 0 {
		return 0, false
	}
	return slices.Max(slices.Collect(maps.Keys(wt.entries))), true
}

// Generations returns the generations present in ascending order.
func (wt *WeightTable) Generations() []int {
	if wt == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(wt.entries))
}

// Len returns the number of generations present.
func (wt *WeightTable) Len() int {
	if wt == nil {
		return 0
	}
	return len(wt.entries)
}

// Clone returns a deep copy.
func (wt *WeightTable) Clone() *WeightTable {
	if wt == nil {
		return NewWeightTable(nil)
	}
	return NewWeightTable(wt.entries)
}

// Map returns a deep copy of the entries.
func (wt *WeightTable) Map() map[int]Weights {
	out := make(map[int]Weights, wt.Len())
	if wt == nil {
		return out
	}
	for t, w := range wt.entries {
		out[t] = maps.Clone(w)
	}
	return out
}

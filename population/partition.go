package population

import (
	"iter"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Partition groups particle positions by model index. Nil particles are
// tracked separately.
type Partition struct {
	models  map[int]*roaring.Bitmap
	skipped *roaring.Bitmap
}

// NewPartition partitions particles by their Model field.
func NewPartition(particles []*Particle) *Partition {
	pt := &Partition{
		models:  make(map[int]*roaring.Bitmap),
		skipped: roaring.New(),
	}
	for i, p := range particles {
		if p == nil {
			pt.skipped.Add(uint32(i))
			continue
		}
		rb, ok := pt.models[p.Model]
		if !ok {
			rb = roaring.New()
			pt.models[p.Model] = rb
		}
		rb.Add(uint32(i))
	}
	return pt
}

// Models returns the model indexes present, sorted.
func (pt *Partition) Models() []int {
	return slices.Sorted(maps.Keys(pt.models))
}

// Count returns the number of particles of model m.
func (pt *Partition) Count(m int) int {
	rb, ok := pt.models[m]
	if !ok {
		return 0
	}
	return int(rb.GetCardinality())
}

// Indexes yields the positions of the particles of model m in ascending
// order.
func (pt *Partition) Indexes(m int) iter.Seq[int] {
	return func(yield func(int) bool) {
		rb, ok := pt.models[m]
		if !ok {
			return
		}
		it := rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Skipped returns the number of nil particles.
func (pt *Partition) Skipped() int {
	return int(pt.skipped.GetCardinality())
}

// SkippedIndexes returns the positions of nil particles, sorted.
func (pt *Partition) SkippedIndexes() []int {
	out := make([]int, 0, pt.skipped.GetCardinality())
	for _, v := range pt.skipped.ToArray() {
		out = append(out, int(v))
	}
	return out
}

package integrals

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Chunk is an immutable slice of one category's integrals. A chunk answers
// the same lookups as the table it came from, but only for the entries it
// carries; everything else reads as zero. Hamiltonian contributions are
// additive over any chunking of a table, which is what makes batched and
// distributed assembly possible.
type Chunk[T constraints.Float] struct {
	category Category
	keys     []uint64
	vals     map[uint64]T
}

// Category returns the chunk's integral category.
func (c *Chunk[T]) Category() Category { return c.category }

// Len returns the number of entries.
func (c *Chunk[T]) Len() int { return len(c.keys) }

// Keys returns the compound keys in ascending order. The caller must not
// modify the returned slice.
func (c *Chunk[T]) Keys() []uint64 { return c.keys }

// Lookup returns the value stored under a compound key, zero if absent.
func (c *Chunk[T]) Lookup(key uint64) T { return c.vals[key] }

// One returns h(i,j) from a one-electron chunk, zero if absent.
func (c *Chunk[T]) One(i, j int) T {
	return c.vals[CompoundIndex2(i, j)]
}

// Two returns <ij|kl> from a two-electron chunk, zero if absent. Any of the
// eight symmetry-equivalent index orders yields the same value.
func (c *Chunk[T]) Two(i, j, k, l int) T {
	return c.vals[CompoundIndex4(i, j, k, l)]
}

// Chunks splits the table into category-tagged chunks of at most chunkSize
// entries each. chunkSize <= 0 emits one chunk per category. Within a
// category, entries are assigned to chunks in ascending key order, so the
// split is deterministic. One-electron integrals are emitted last under
// CategoryOneElectron; the core energy E0 is not part of any chunk.
func (t *Table[T]) Chunks(chunkSize int) []*Chunk[T] {
	byCat := make(map[Category][]uint64)
	for key := range t.twoE {
		cat := Categorize(ReverseIndex4(key))
		byCat[cat] = append(byCat[cat], key)
	}

	var out []*Chunk[T]
	emit := func(cat Category, keys []uint64, vals map[uint64]T) {
		sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
		step := chunkSize
		if step <= 0 {
			step = len(keys)
		}
		for lo := 0; lo < len(keys); lo += step {
			hi := lo + step
			if hi > len(keys) {
				hi = len(keys)
			}
			ck := &Chunk[T]{
				category: cat,
				keys:     append([]uint64(nil), keys[lo:hi]...),
				vals:     make(map[uint64]T, hi-lo),
			}
			for _, k := range ck.keys {
				ck.vals[k] = vals[k]
			}
			out = append(out, ck)
		}
	}

	for _, cat := range TwoElectronCategories {
		if keys := byCat[cat]; len(keys) > 0 {
			emit(cat, keys, t.twoE)
		}
	}

	oneKeys := make([]uint64, 0, len(t.oneE))
	for key := range t.oneE {
		oneKeys = append(oneKeys, key)
	}
	if len(oneKeys) > 0 {
		emit(CategoryOneElectron, oneKeys, t.oneE)
	}
	return out
}

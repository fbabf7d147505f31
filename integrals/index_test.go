package integrals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// equivalents returns the 8-fold symmetry orbit of a Dirac tuple.
func equivalents(i, j, k, l int) [8][4]int {
	return [8][4]int{
		{i, j, k, l},
		{k, j, i, l},
		{i, l, k, j},
		{k, l, i, j},
		{j, i, l, k},
		{j, k, l, i},
		{l, i, j, k},
		{l, k, j, i},
	}
}

func TestCompoundIndex2(t *testing.T) {
	assert.Equal(t, uint64(0), CompoundIndex2(0, 0))
	assert.Equal(t, CompoundIndex2(3, 7), CompoundIndex2(7, 3))

	seen := map[uint64]bool{}
	for q := 0; q < 20; q++ {
		for p := 0; p <= q; p++ {
			c := CompoundIndex2(p, q)
			assert.False(t, seen[c], "collision at (%d,%d)", p, q)
			seen[c] = true

			rp, rq := ReverseIndex2(c)
			assert.Equal(t, uint64(p), rp)
			assert.Equal(t, uint64(q), rq)
		}
	}
}

func TestCompoundIndex4Symmetry(t *testing.T) {
	const norb = 5
	for i := 0; i < norb; i++ {
		for j := 0; j < norb; j++ {
			for k := 0; k < norb; k++ {
				for l := 0; l < norb; l++ {
					key := CompoundIndex4(i, j, k, l)
					for _, e := range equivalents(i, j, k, l) {
						assert.Equal(t, key, CompoundIndex4(e[0], e[1], e[2], e[3]),
							"(%d,%d,%d,%d) vs %v", i, j, k, l, e)
					}

					ci, cj, ck, cl := CanonicalIndex4(i, j, k, l)
					require.LessOrEqual(t, ci, ck)
					require.LessOrEqual(t, cj, cl)
					require.LessOrEqual(t, CompoundIndex2(ci, ck), CompoundIndex2(cj, cl))
					assert.Equal(t, key, CompoundIndex4(ci, cj, ck, cl))

					ri, rj, rk, rl := ReverseIndex4(key)
					assert.Equal(t, [4]int{ci, cj, ck, cl}, [4]int{ri, rj, rk, rl})
				}
			}
		}
	}
}

func TestCategorizePatterns(t *testing.T) {
	tests := []struct {
		name       string
		i, j, k, l int
		want       Category
	}{
		{"all equal", 0, 0, 0, 0, CategoryA},
		{"diagonal direct", 0, 1, 0, 1, CategoryB},
		{"spectator direct", 0, 1, 2, 1, CategoryC},
		{"three equal", 0, 0, 0, 1, CategoryD},
		{"one coincidence", 0, 1, 1, 2, CategoryE},
		{"diagonal exchange raw", 0, 1, 1, 0, CategoryF},
		{"pair doubles", 0, 0, 1, 1, CategoryF},
		{"all distinct", 0, 1, 2, 3, CategoryG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.i, tt.j, tt.k, tt.l))
		})
	}
}

func TestCategorizePartition(t *testing.T) {
	// every tuple lands in exactly one category, invariant over its orbit
	const norb = 4
	counts := map[Category]int{}
	for i := 0; i < norb; i++ {
		for j := 0; j < norb; j++ {
			for k := 0; k < norb; k++ {
				for l := 0; l < norb; l++ {
					cat := Categorize(i, j, k, l)
					require.Contains(t, TwoElectronCategories, cat)
					counts[cat]++
					for _, e := range equivalents(i, j, k, l) {
						assert.Equal(t, cat, Categorize(e[0], e[1], e[2], e[3]))
					}
				}
			}
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, norb*norb*norb*norb, total)
	for _, cat := range TwoElectronCategories {
		assert.Positive(t, counts[cat], "category %v never produced", cat)
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "A", CategoryA.String())
	assert.Equal(t, "G", CategoryG.String())
	assert.Equal(t, "OE", CategoryOneElectron.String())
	assert.Equal(t, "?", Category(200).String())
}

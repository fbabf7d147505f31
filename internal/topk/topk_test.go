package topk

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeepSmallest(t *testing.T) {
	h := New[float64](3)
	for i, v := range []float64{5, -1, 3, -4, 2, -4, 0} {
		h.Push(i, v)
	}

	items := h.Items()
	require.Len(t, items, 3)
	assert.Equal(t, Item[float64]{Index: 3, Value: -4}, items[0])
	assert.Equal(t, Item[float64]{Index: 5, Value: -4}, items[1])
	assert.Equal(t, Item[float64]{Index: 1, Value: -1}, items[2])
}

func TestFewerThanN(t *testing.T) {
	h := New[float32](10)
	h.Push(0, 2)
	h.Push(1, 1)
	items := h.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Index)
}

func TestZeroCapacity(t *testing.T) {
	h := New[float64](0)
	h.Push(0, -1)
	assert.Empty(t, h.Items())
}

func TestMatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const n, k = 500, 25

	vals := make([]float64, n)
	h := New[float64](k)
	for i := range vals {
		vals[i] = rng.NormFloat64()
		h.Push(i, vals[i])
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	items := h.Items()
	require.Len(t, items, k)
	for i := 0; i < k; i++ {
		assert.Equal(t, sorted[i], items[i].Value)
	}
}

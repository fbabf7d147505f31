// Package topk keeps the n smallest values of a stream without storing the
// stream.
package topk

import (
	"container/heap"
	"sort"

	"golang.org/x/exp/constraints"
)

// Item is one candidate with its position in the originating stream.
type Item[T constraints.Float] struct {
	Index int
	Value T
}

// Heap retains the n items with the smallest values seen so far. Ties are
// broken by index, so the result is deterministic for any push order.
type Heap[T constraints.Float] struct {
	n     int
	items maxHeap[T]
}

// New creates a heap retaining at most n items. n <= 0 retains nothing.
func New[T constraints.Float](n int) *Heap[T] {
	return &Heap[T]{n: n}
}

// Push offers one candidate.
func (h *Heap[T]) Push(index int, value T) {
	if h.n <= 0 {
		return
	}
	it := Item[T]{Index: index, Value: value}
	if h.items.Len() < h.n {
		heap.Push(&h.items, it)
		return
	}
	if less(it, h.items[0]) {
		h.items[0] = it
		heap.Fix(&h.items, 0)
	}
}

// Items returns the retained items sorted ascending by value, ties by
// index.
func (h *Heap[T]) Items() []Item[T] {
	out := append([]Item[T](nil), h.items...)
	sort.Slice(out, func(a, b int) bool { return less(out[a], out[b]) })
	return out
}

// less orders items ascending by value, then index.
func less[T constraints.Float](a, b Item[T]) bool {
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	return a.Index < b.Index
}

// maxHeap is a max-heap on the item order, so the root is the first item to
// evict.
type maxHeap[T constraints.Float] []Item[T]

func (h maxHeap[T]) Len() int           { return len(h) }
func (h maxHeap[T]) Less(a, b int) bool { return less(h[b], h[a]) }
func (h maxHeap[T]) Swap(a, b int)      { h[a], h[b] = h[b], h[a] }

func (h *maxHeap[T]) Push(x any) { *h = append(*h, x.(Item[T])) }

func (h *maxHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

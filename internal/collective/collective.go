// Package collective provides barrier-synchronized reduction primitives for
// a fixed group of worker goroutines.
//
// Every operation is deterministic: each member combines the posted buffers
// in rank order, so all members observe bit-identical results regardless of
// goroutine scheduling.
package collective

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// barrier is a reusable rendezvous point for n goroutines.
type barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	n     int
	count int
	gen   int
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until all n members have arrived.
func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.count++
	if b.count == b.n {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}

// Group coordinates n worker goroutines, each identified by a rank in
// [0, n). All members must call each collective operation the same number
// of times in the same order.
type Group[T constraints.Float] struct {
	n     int
	slots [][]T
	b     *barrier
}

// NewGroup creates a group of n members.
func NewGroup[T constraints.Float](n int) *Group[T] {
	return &Group[T]{n: n, slots: make([][]T, n), b: newBarrier(n)}
}

// Size returns the number of members.
func (g *Group[T]) Size() int { return g.n }

// AllReduceSum replaces buf, in every member, with the elementwise sum of
// all members' buffers. Summation runs in rank order.
func (g *Group[T]) AllReduceSum(rank int, buf []T) {
	g.slots[rank] = buf
	g.b.wait()

	tmp := make([]T, len(buf))
	for r := 0; r < g.n; r++ {
		for i, v := range g.slots[r] {
			tmp[i] += v
		}
	}
	g.b.wait()

	copy(buf, tmp)
}

// AllGather concatenates all members' equal-length buffers into out in rank
// order. out must have length n*len(mine).
func (g *Group[T]) AllGather(rank int, mine []T, out []T) {
	g.slots[rank] = mine
	g.b.wait()

	w := len(mine)
	for r := 0; r < g.n; r++ {
		copy(out[r*w:(r+1)*w], g.slots[r])
	}
	g.b.wait()
}

// Barrier blocks until every member has reached it.
func (g *Group[T]) Barrier() {
	g.b.wait()
}

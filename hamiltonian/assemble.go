package hamiltonian

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/kgasperich/arches/dense"
	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/integrals"
)

// LengthMismatchError reports two slices that must share a length but do
// not.
type LengthMismatchError struct {
	Want, Got int
}

// Error implements the error interface.
func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("hamiltonian: length mismatch: want %d, got %d", e.Want, e.Got)
}

// binding is one chunk with its kernel pair, selected once at construction.
type binding[T constraints.Float] struct {
	chunk *integrals.Chunk[T]
	k     KernelPair[T]
}

// Assembler turns integral chunks into Hamiltonian matrix elements. The
// kernel pair of every chunk is bound once; all element, matrix and PT2
// evaluations then run the bound kernels and sum over chunks.
type Assembler[T constraints.Float] struct {
	e0       T
	bindings []binding[T]
}

// NewAssembler binds kernels to chunks. e0 is the core energy added to
// every diagonal element.
func NewAssembler[T constraints.Float](e0 T, chunks []*integrals.Chunk[T]) *Assembler[T] {
	a := &Assembler[T]{e0: e0, bindings: make([]binding[T], 0, len(chunks))}
	for _, ch := range chunks {
		a.bindings = append(a.bindings, binding[T]{chunk: ch, k: KernelsFor[T](ch.Category())})
	}
	return a
}

// E0 returns the core energy.
func (a *Assembler[T]) E0() T { return a.e0 }

// NumChunks returns the number of bound chunks.
func (a *Assembler[T]) NumChunks() int { return len(a.bindings) }

// Element evaluates one matrix element H[di, dj] over all chunks.
// Determinant pairs with total excitation degree above two return zero.
func (a *Assembler[T]) Element(di, dj determinant.Determinant) T {
	if di.Equal(dj) {
		s := a.e0
		for _, b := range a.bindings {
			if b.k.Diagonal != nil {
				s += b.k.Diagonal(b.chunk, di)
			}
		}
		return s
	}

	if dup, ddn := determinant.Degree(di, dj); dup+ddn > 2 {
		return 0
	}
	var s T
	for _, b := range a.bindings {
		if b.k.OffDiagonal != nil {
			s += b.k.OffDiagonal(b.chunk, di, dj)
		}
	}
	return s
}

// Dense assembles the full Hamiltonian over a basis as a dense matrix.
// Intended for small bases and for cross-checking the sparse path.
func (a *Assembler[T]) Dense(dets []determinant.Determinant) *dense.Matrix[T] {
	n := len(dets)
	h := dense.New[T](n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := a.Element(dets[i], dets[j])
			h.Set(i, j, v)
			h.Set(j, i, v)
		}
	}
	return h
}

// chunkValues accumulates one chunk's contributions into out, which is
// indexed like m.val. Each allocated entry is written at most once per
// chunk.
func chunkValues[T constraints.Float](m *CSR[T], dets []determinant.Determinant, b binding[T], out []T) {
	for i := 0; i < m.n; i++ {
		for pos := m.rowPtr[i]; pos < m.rowPtr[i+1]; pos++ {
			j := m.col[pos]
			if i == j {
				if b.k.Diagonal != nil {
					out[pos] += b.k.Diagonal(b.chunk, dets[i])
				}
			} else if b.k.OffDiagonal != nil {
				out[pos] += b.k.OffDiagonal(b.chunk, dets[i], dets[j])
			}
		}
	}
}

// Sparse assembles the Hamiltonian over a basis in CSR form: the symbolic
// structure pass followed by a numeric pass accumulating every chunk.
// Chunks are evaluated concurrently into private buffers and reduced in
// chunk order, so the result is deterministic.
func (a *Assembler[T]) Sparse(ctx context.Context, dets []determinant.Determinant) (*CSR[T], error) {
	m, err := Structure[T](ctx, dets)
	if err != nil {
		return nil, err
	}
	if err := a.Accumulate(ctx, m, dets); err != nil {
		return nil, err
	}
	return m, nil
}

// Accumulate runs the numeric pass on an existing structure, adding E0 to
// the diagonal and every chunk's contribution to its allocated entries.
func (a *Assembler[T]) Accumulate(ctx context.Context, m *CSR[T], dets []determinant.Determinant) error {
	if len(dets) != m.n {
		return &LengthMismatchError{Want: m.n, Got: len(dets)}
	}
	for i := 0; i < m.n; i++ {
		if pos, ok := m.index(i, i); ok {
			m.val[pos] += a.e0
		}
	}

	parts := make([][]T, len(a.bindings))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for n, b := range a.bindings {
		n, b := n, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf := make([]T, len(m.val))
			chunkValues(m, dets, b, buf)
			parts[n] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, buf := range parts {
		for pos, v := range buf {
			m.val[pos] += v
		}
	}
	return nil
}

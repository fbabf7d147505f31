package hamiltonian

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/kgasperich/arches/determinant"
)

// StructureMismatchError reports a disagreement between a sparse structure
// and the connectivity of a determinant basis.
type StructureMismatchError struct {
	Row, Col int
	Missing  bool
}

// Error implements the error interface.
func (e *StructureMismatchError) Error() string {
	if e.Missing {
		return fmt.Sprintf("hamiltonian: connected pair (%d,%d) missing from structure", e.Row, e.Col)
	}
	return fmt.Sprintf("hamiltonian: spurious entry (%d,%d) in structure", e.Row, e.Col)
}

// CSR is a symmetric sparse matrix storing the upper triangle, diagonal
// included, in compressed sparse row layout. Columns ascend within each
// row, so the diagonal entry is always the first of its row.
type CSR[T constraints.Float] struct {
	n      int
	rowPtr []int
	col    []int
	val    []T
}

// Dim returns the matrix dimension.
func (m *CSR[T]) Dim() int { return m.n }

// NNZ returns the number of stored upper-triangle entries.
func (m *CSR[T]) NNZ() int { return len(m.col) }

// index returns the storage position of upper-triangle entry (i, j), i <= j.
func (m *CSR[T]) index(i, j int) (int, bool) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	pos := lo + sort.SearchInts(m.col[lo:hi], j)
	if pos < hi && m.col[pos] == j {
		return pos, true
	}
	return 0, false
}

// At returns element (i, j), resolving symmetry. Absent entries read zero.
func (m *CSR[T]) At(i, j int) T {
	if j < i {
		i, j = j, i
	}
	if pos, ok := m.index(i, j); ok {
		return m.val[pos]
	}
	return 0
}

// MatVec computes dst = M*x using the symmetric expansion of the stored
// upper triangle. dst is overwritten.
func (m *CSR[T]) MatVec(dst, x []T) {
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < m.n; i++ {
		xi := x[i]
		var acc T
		for pos := m.rowPtr[i]; pos < m.rowPtr[i+1]; pos++ {
			j := m.col[pos]
			v := m.val[pos]
			acc += v * x[j]
			if j != i {
				dst[j] += v * xi
			}
		}
		dst[i] += acc
	}
}

// Diag copies the diagonal into dst.
func (m *CSR[T]) Diag(dst []T) {
	for i := 0; i < m.n; i++ {
		dst[i] = m.At(i, i)
	}
}

// SubDiag copies the first superdiagonal into dst, which must have length
// Dim()-1. Together with Diag it feeds the tridiagonal preconditioner.
func (m *CSR[T]) SubDiag(dst []T) {
	for i := 0; i+1 < m.n; i++ {
		dst[i] = m.At(i, i+1)
	}
}

// Structure runs the symbolic pass: it fixes the upper-triangle sparsity of
// the Hamiltonian over a determinant basis from excitation degrees alone.
// An entry (i, j), i <= j, is allocated iff the total degree between the
// two determinants is at most two; values are left zero. Rows are built
// concurrently, one bitmap per row.
func Structure[T constraints.Float](ctx context.Context, dets []determinant.Determinant) (*CSR[T], error) {
	n := len(dets)
	rows := make([]*roaring.Bitmap, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := roaring.New()
			for j := i; j < n; j++ {
				dup, ddn := determinant.Degree(dets[i], dets[j])
				if dup+ddn <= 2 {
					row.Add(uint32(j))
				}
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &CSR[T]{n: n, rowPtr: make([]int, n+1)}
	for i, row := range rows {
		m.rowPtr[i] = len(m.col)
		it := row.Iterator()
		for it.HasNext() {
			m.col = append(m.col, int(it.Next()))
		}
	}
	m.rowPtr[n] = len(m.col)
	m.val = make([]T, len(m.col))
	return m, nil
}

// CheckStructure verifies that the stored sparsity matches the connectivity
// of dets exactly. It is the active probe for structure drift: a kernel can
// only write where the symbolic pass allocated, so a missing entry would
// silently drop contributions.
func (m *CSR[T]) CheckStructure(dets []determinant.Determinant) error {
	if len(dets) != m.n {
		return &LengthMismatchError{Want: m.n, Got: len(dets)}
	}
	for i := 0; i < m.n; i++ {
		for j := i; j < m.n; j++ {
			dup, ddn := determinant.Degree(dets[i], dets[j])
			connected := dup+ddn <= 2
			_, present := m.index(i, j)
			if connected != present {
				return &StructureMismatchError{Row: i, Col: j, Missing: connected}
			}
		}
	}
	return nil
}

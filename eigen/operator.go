package eigen

import (
	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/dense"
)

// Operator is a symmetric linear operator of fixed dimension.
type Operator[T constraints.Float] interface {
	// Dim returns the dimension n.
	Dim() int
	// MatVec computes dst = A*x, overwriting dst. len(dst) == len(x) == n.
	MatVec(dst, x []T)
	// Diag copies the diagonal into dst. len(dst) == n.
	Diag(dst []T)
}

// SubDiagonaler is implemented by operators that can expose their first
// superdiagonal, enabling the tridiagonal preconditioner.
type SubDiagonaler[T constraints.Float] interface {
	// SubDiag copies the first superdiagonal into dst. len(dst) == n-1.
	SubDiag(dst []T)
}

// DenseOperator adapts a dense symmetric matrix to the Operator interface.
type DenseOperator[T constraints.Float] struct {
	M *dense.Matrix[T]
}

var (
	_ Operator[float64]      = (*DenseOperator[float64])(nil)
	_ SubDiagonaler[float64] = (*DenseOperator[float64])(nil)
)

// Dim implements Operator.
func (o *DenseOperator[T]) Dim() int { return o.M.Rows() }

// MatVec implements Operator.
func (o *DenseOperator[T]) MatVec(dst, x []T) {
	n := o.M.Rows()
	for i := 0; i < n; i++ {
		dst[i] = 0
	}
	for j := 0; j < n; j++ {
		col := o.M.Col(j)
		f := x[j]
		if f == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			dst[i] += col[i] * f
		}
	}
}

// Diag implements Operator.
func (o *DenseOperator[T]) Diag(dst []T) {
	for i := range dst {
		dst[i] = o.M.At(i, i)
	}
}

// SubDiag implements SubDiagonaler.
func (o *DenseOperator[T]) SubDiag(dst []T) {
	for i := range dst {
		dst[i] = o.M.At(i, i+1)
	}
}

// applyColumns applies op to every column of v.
func applyColumns[T constraints.Float](op Operator[T], v *dense.Matrix[T]) *dense.Matrix[T] {
	w := dense.New[T](v.Rows(), v.Cols())
	for j := 0; j < v.Cols(); j++ {
		op.MatVec(w.Col(j), v.Col(j))
	}
	return w
}

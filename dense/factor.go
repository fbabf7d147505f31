package dense

import (
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
)

// toGonum copies m into a float64 row-major gonum matrix.
func toGonum[T constraints.Float](m *Matrix[T]) *mat.Dense {
	out := mat.NewDense(m.rows, m.cols, nil)
	for j := 0; j < m.cols; j++ {
		col := m.Col(j)
		for i, v := range col {
			out.Set(i, j, float64(v))
		}
	}
	return out
}

// fromGonum copies a gonum matrix into precision T.
func fromGonum[T constraints.Float](g mat.Matrix) *Matrix[T] {
	r, c := g.Dims()
	out := New[T](r, c)
	for j := 0; j < c; j++ {
		col := out.Col(j)
		for i := range col {
			col[i] = T(g.At(i, j))
		}
	}
	return out
}

// QR returns the thin QR factorization of x: q is rows x cols with
// orthonormal columns and r is cols x cols upper triangular.
func QR[T constraints.Float](x *Matrix[T]) (q, r *Matrix[T]) {
	var f mat.QR
	f.Factorize(toGonum(x))

	var qg, rg mat.Dense
	f.QTo(&qg)
	f.RTo(&rg)

	// thin factors
	qq := fromGonum[T](&qg)
	rr := fromGonum[T](&rg)
	return qq.ColsView(0, x.cols).Clone(), &Matrix[T]{
		rows: x.cols,
		cols: x.cols,
		data: sliceRows(rr, x.cols),
	}
}

// sliceRows extracts the first n rows of m into fresh column-major storage.
func sliceRows[T constraints.Float](m *Matrix[T], n int) []T {
	out := make([]T, n*m.cols)
	for j := 0; j < m.cols; j++ {
		copy(out[j*n:(j+1)*n], m.Col(j)[:n])
	}
	return out
}

// EigSym returns the eigenvalues (ascending) and orthonormal eigenvectors
// of the symmetric matrix s.
func EigSym[T constraints.Float](s *Matrix[T]) (vals []T, vecs *Matrix[T]) {
	n := s.rows
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, float64(s.At(i, j)))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		panic("dense: symmetric eigendecomposition failed to converge")
	}

	raw := eig.Values(nil)
	vals = make([]T, n)
	for i, v := range raw {
		vals[i] = T(v)
	}
	var vg mat.Dense
	eig.VectorsTo(&vg)
	return vals, fromGonum[T](&vg)
}

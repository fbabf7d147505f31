package dense

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Matrix is a column-major dense matrix of precision T.
type Matrix[T constraints.Float] struct {
	rows, cols int
	data       []T
}

// New creates a zeroed rows x cols matrix.
func New[T constraints.Float](rows, cols int) *Matrix[T] {
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// FromColMajor wraps existing column-major data without copying. The slice
// length must be rows*cols.
func FromColMajor[T constraints.Float](rows, cols int, data []T) *Matrix[T] {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("dense: data length %d does not match %dx%d", len(data), rows, cols))
	}
	return &Matrix[T]{rows: rows, cols: cols, data: data}
}

// Identity creates the n x n identity matrix.
func Identity[T constraints.Float](n int) *Matrix[T] {
	m := New[T](n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Rows returns the row count.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix[T]) Cols() int { return m.cols }

// At returns the element at (i, j).
func (m *Matrix[T]) At(i, j int) T { return m.data[j*m.rows+i] }

// Set assigns the element at (i, j).
func (m *Matrix[T]) Set(i, j int, v T) { m.data[j*m.rows+i] = v }

// Data returns the backing column-major slice, shared with m.
func (m *Matrix[T]) Data() []T { return m.data }

// Col returns column j as a shared slice view.
func (m *Matrix[T]) Col(j int) []T { return m.data[j*m.rows : (j+1)*m.rows] }

// ColsView returns columns [lo, hi) as a matrix sharing m's storage.
func (m *Matrix[T]) ColsView(lo, hi int) *Matrix[T] {
	return &Matrix[T]{rows: m.rows, cols: hi - lo, data: m.data[lo*m.rows : hi*m.rows]}
}

// SetCols copies src into columns [lo, lo+src.Cols()) of m.
func (m *Matrix[T]) SetCols(lo int, src *Matrix[T]) {
	copy(m.data[lo*m.rows:], src.data)
}

// SetSub copies src into m with its top-left corner at (i0, j0).
func (m *Matrix[T]) SetSub(i0, j0 int, src *Matrix[T]) {
	for j := 0; j < src.cols; j++ {
		copy(m.Col(j0+j)[i0:i0+src.rows], src.Col(j))
	}
}

// Block copies the r x c submatrix with top-left corner (i0, j0) out of m.
func (m *Matrix[T]) Block(i0, j0, r, c int) *Matrix[T] {
	out := New[T](r, c)
	for j := 0; j < c; j++ {
		copy(out.Col(j), m.Col(j0+j)[i0:i0+r])
	}
	return out
}

// Clone returns an independent copy.
func (m *Matrix[T]) Clone() *Matrix[T] {
	out := New[T](m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// HStack returns [a | b].
func HStack[T constraints.Float](a, b *Matrix[T]) *Matrix[T] {
	out := New[T](a.rows, a.cols+b.cols)
	copy(out.data, a.data)
	copy(out.data[a.cols*a.rows:], b.data)
	return out
}

// Mul returns a*b.
func Mul[T constraints.Float](a, b *Matrix[T]) *Matrix[T] {
	out := New[T](a.rows, b.cols)
	for j := 0; j < b.cols; j++ {
		bcol := b.Col(j)
		ocol := out.Col(j)
		for k := 0; k < a.cols; k++ {
			f := bcol[k]
			if f == 0 {
				continue
			}
			acol := a.Col(k)
			for i := range ocol {
				ocol[i] += acol[i] * f
			}
		}
	}
	return out
}

// MulAtB returns aᵀ*b. Column-major storage makes each output entry a dot
// product of two contiguous columns.
func MulAtB[T constraints.Float](a, b *Matrix[T]) *Matrix[T] {
	out := New[T](a.cols, b.cols)
	for j := 0; j < b.cols; j++ {
		bcol := b.Col(j)
		for i := 0; i < a.cols; i++ {
			acol := a.Col(i)
			var s T
			for n := range acol {
				s += acol[n] * bcol[n]
			}
			out.Set(i, j, s)
		}
	}
	return out
}

// Sub subtracts o from m in place.
func (m *Matrix[T]) Sub(o *Matrix[T]) {
	for i := range m.data {
		m.data[i] -= o.data[i]
	}
}

// Scale multiplies every element by f in place.
func (m *Matrix[T]) Scale(f T) {
	for i := range m.data {
		m.data[i] *= f
	}
}

// ScaleCols scales column j by f[j] in place.
func (m *Matrix[T]) ScaleCols(f []T) {
	for j := 0; j < m.cols; j++ {
		col := m.Col(j)
		for i := range col {
			col[i] *= f[j]
		}
	}
}

// ColNorm returns the Euclidean norm of column j.
func (m *Matrix[T]) ColNorm(j int) float64 {
	var s float64
	for _, v := range m.Col(j) {
		s += float64(v) * float64(v)
	}
	return math.Sqrt(s)
}

// MaxAbsDiff returns the largest absolute elementwise difference between m
// and o.
func MaxAbsDiff[T constraints.Float](m, o *Matrix[T]) float64 {
	var max float64
	for i := range m.data {
		d := math.Abs(float64(m.data[i]) - float64(o.data[i]))
		if d > max {
			max = d
		}
	}
	return max
}

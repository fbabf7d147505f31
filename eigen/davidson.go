package eigen

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/dense"
	"github.com/kgasperich/arches/internal/floats"
)

// Preconditioner selects how residuals are turned into new trial vectors.
type Preconditioner int

const (
	// PreconditionerDiagonal applies (λI - diag(A))⁻¹ elementwise.
	PreconditionerDiagonal Preconditioner = iota
	// PreconditionerTridiagonal solves the shifted tridiagonal system built
	// from the operator's diagonal and first superdiagonal.
	PreconditionerTridiagonal
)

type config[T constraints.Float] struct {
	states  int
	block   int
	maxIter int
	maxRank int
	tol     float64
	pre     Preconditioner
	guess   *dense.Matrix[T]
}

// Option configures a Davidson run.
type Option[T constraints.Float] func(*config[T])

// WithStates sets the number of eigenpairs to converge. Default 1.
func WithStates[T constraints.Float](n int) Option[T] {
	return func(c *config[T]) { c.states = n }
}

// WithBlockSize sets the number of trial vectors added per iteration.
// Must be even. Default 8.
func WithBlockSize[T constraints.Float](p int) Option[T] {
	return func(c *config[T]) { c.block = p }
}

// WithMaxIterations caps the iteration count. A run hitting the cap returns
// its best estimates with Converged set to false. Default 100.
func WithMaxIterations[T constraints.Float](n int) Option[T] {
	return func(c *config[T]) { c.maxIter = n }
}

// WithMaxSubspaceRank bounds the trial subspace; when appending a block
// would exceed it, the subspace collapses to the current Ritz block plus
// the new trial vectors. Zero means unbounded. Default 0.
func WithMaxSubspaceRank[T constraints.Float](n int) Option[T] {
	return func(c *config[T]) { c.maxRank = n }
}

// WithTolerance sets the residual norm threshold. Default 1e-6.
func WithTolerance[T constraints.Float](tol float64) Option[T] {
	return func(c *config[T]) { c.tol = tol }
}

// WithPreconditioner selects the preconditioner. Default diagonal.
func WithPreconditioner[T constraints.Float](p Preconditioner) Option[T] {
	return func(c *config[T]) { c.pre = p }
}

// WithInitialGuess seeds the trial basis with the given orthonormal
// columns, typically the Subspace of a previous result. A guess with fewer
// rows than the operator dimension is zero-padded, which is how a basis
// converged on a smaller determinant space warm-starts a grown one.
func WithInitialGuess[T constraints.Float](v *dense.Matrix[T]) Option[T] {
	return func(c *config[T]) { c.guess = v }
}

// Result holds the outcome of a Davidson run.
type Result[T constraints.Float] struct {
	// Values are the lowest eigenvalue estimates, ascending.
	Values []T
	// Vectors are the matching Ritz vectors, one column per state.
	Vectors *dense.Matrix[T]
	// Residuals are the per-state residual norms at termination.
	Residuals []float64
	// Iterations is the number of iterations performed.
	Iterations int
	// Converged is false when the run stopped on the iteration cap instead
	// of the tolerance. The estimates are still the best available.
	Converged bool
	// Subspace is the final Ritz block, usable as an initial guess for a
	// later run.
	Subspace *dense.Matrix[T]
}

func newConfig[T constraints.Float](opts ...Option[T]) config[T] {
	cfg := config[T]{states: 1, block: 8, maxIter: 100, tol: 1e-6}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c *config[T]) validate(dim int) error {
	if c.block < 2 || c.block%2 != 0 || c.block > dim {
		return &BlockSizeError{Block: c.block, Cols: dim}
	}
	if c.states < 1 || c.states > c.block {
		return ErrStates
	}
	if c.maxIter < 1 {
		return ErrIterations
	}
	if c.maxRank != 0 && c.maxRank < 2*c.block {
		return &BlockSizeError{Block: c.block, Cols: c.maxRank}
	}
	if c.guess != nil {
		if c.guess.Cols() != c.block {
			return &BlockSizeError{Block: c.block, Cols: c.guess.Cols()}
		}
		if c.guess.Rows() > dim {
			return &DimensionError{Want: dim, Got: c.guess.Rows()}
		}
	}
	return nil
}

// initialBasis builds the starting m x block trial basis: the guess,
// zero-padded if needed, or unit coordinate columns.
func (c *config[T]) initialBasis(m int) *dense.Matrix[T] {
	v := dense.New[T](m, c.block)
	if c.guess != nil {
		v.SetSub(0, 0, c.guess)
		return v
	}
	for j := 0; j < c.block; j++ {
		v.Set(j, j, 1)
	}
	return v
}

// shiftFloor is the clamp keeping preconditioner denominators away from
// zero near degeneracies.
func shiftFloor[T constraints.Float](shift T) T {
	f := T(1e4 * floats.Eps[T]())
	if s := floats.Abs(shift); s > 1 {
		f *= s
	}
	return f
}

// precondDiagonal writes (shift - diag)⁻¹ ⊙ r into dst.
func precondDiagonal[T constraints.Float](dst, r, diag []T, shift T) {
	floor := shiftFloor(shift)
	for i := range dst {
		d := shift - diag[i]
		if floats.Abs(d) < floor {
			if d < 0 {
				d = -floor
			} else {
				d = floor
			}
		}
		dst[i] = r[i] / d
	}
}

// precondTridiagonal solves the symmetric tridiagonal system with diagonal
// (shift - diag) and off-diagonal sub by an LDLᵀ sweep, writing the
// solution into dst. Pivots are clamped like the diagonal case.
func precondTridiagonal[T constraints.Float](dst, r, diag, sub []T, shift T) {
	n := len(dst)
	floor := shiftFloor(shift)
	clamp := func(d T) T {
		if floats.Abs(d) < floor {
			if d < 0 {
				return -floor
			}
			return floor
		}
		return d
	}

	dd := make([]T, n)
	l := make([]T, n-1)
	dd[0] = clamp(shift - diag[0])
	for i := 0; i < n-1; i++ {
		l[i] = sub[i] / dd[i]
		dd[i+1] = clamp(shift - diag[i+1] - l[i]*sub[i])
	}

	// forward solve L y = r, scale by D, back solve Lᵀ x = z
	dst[0] = r[0]
	for i := 1; i < n; i++ {
		dst[i] = r[i] - l[i-1]*dst[i-1]
	}
	for i := 0; i < n; i++ {
		dst[i] /= dd[i]
	}
	for i := n - 2; i >= 0; i-- {
		dst[i] -= l[i] * dst[i+1]
	}
}

// ritzStep diagonalizes the subspace projection and forms the Ritz block:
// eigenvalues of VᵀW, the Ritz vectors X = V Q_l, and W Q_l for residuals.
func ritzStep[T constraints.Float](v, w *dense.Matrix[T], block int) (vals []T, x, wx *dense.Matrix[T]) {
	s := dense.MulAtB(v, w)
	vals, q := dense.EigSym(s)
	ql := q.ColsView(0, block)
	return vals, dense.Mul(v, ql), dense.Mul(w, ql)
}

// residualColumn writes λ x - (W Q)_col into dst and returns its norm.
func residualColumn[T constraints.Float](dst []T, x, wx *dense.Matrix[T], vals []T, j int) float64 {
	xc, wc := x.Col(j), wx.Col(j)
	var sum float64
	for i := range dst {
		dst[i] = vals[j]*xc[i] - wc[i]
		sum += float64(dst[i]) * float64(dst[i])
	}
	return math.Sqrt(sum)
}

// grow extends the orthonormal basis with a preconditioned block, either by
// a warm BMGSH append or, at the subspace rank bound, by collapsing onto
// the Ritz block first.
func grow[T constraints.Float](cfg *config[T], v *dense.Matrix[T], fact *Factorization[T], x, vkk *dense.Matrix[T]) (*dense.Matrix[T], *Factorization[T], error) {
	half := cfg.block / 2
	if cfg.maxRank != 0 && v.Cols()+cfg.block > cfg.maxRank {
		f, err := BMGSH(dense.HStack(x, vkk), half, nil)
		if err != nil {
			return nil, nil, err
		}
		return f.Q, f, nil
	}
	f, err := BMGSH(dense.HStack(v, vkk), half, fact)
	if err != nil {
		return nil, nil, err
	}
	return f.Q, f, nil
}

// Davidson finds the lowest eigenpairs of op.
func Davidson[T constraints.Float](op Operator[T], opts ...Option[T]) (*Result[T], error) {
	cfg := newConfig(opts...)
	m := op.Dim()
	if err := cfg.validate(m); err != nil {
		return nil, err
	}

	diag := make([]T, m)
	op.Diag(diag)
	var sub []T
	if cfg.pre == PreconditionerTridiagonal {
		sd, ok := op.(SubDiagonaler[T])
		if !ok {
			return nil, ErrNoSubDiagonal
		}
		sub = make([]T, m-1)
		sd.SubDiag(sub)
	}

	v := cfg.initialBasis(m)
	fact := &Factorization[T]{
		Q: v,
		R: dense.Identity[T](cfg.block),
		T: dense.Identity[T](cfg.block),
	}

	res := &Result[T]{}
	for it := 0; it < cfg.maxIter; it++ {
		res.Iterations = it + 1

		w := applyColumns(op, v)
		vals, x, wx := ritzStep(v, w, cfg.block)

		rnorms := make([]float64, cfg.block)
		vkk := dense.New[T](m, cfg.block)
		rcol := make([]T, m)
		for j := 0; j < cfg.block; j++ {
			rnorms[j] = residualColumn(rcol, x, wx, vals, j)
			if cfg.pre == PreconditionerTridiagonal {
				precondTridiagonal(vkk.Col(j), rcol, diag, sub, vals[j])
			} else {
				precondDiagonal(vkk.Col(j), rcol, diag, vals[j])
			}
		}

		done := true
		for j := 0; j < cfg.states; j++ {
			if rnorms[j] >= cfg.tol {
				done = false
				break
			}
		}
		if done || it == cfg.maxIter-1 {
			res.Converged = done
			res.Values = append([]T(nil), vals[:cfg.states]...)
			res.Vectors = x.ColsView(0, cfg.states).Clone()
			res.Residuals = rnorms[:cfg.states]
			res.Subspace = x
			return res, nil
		}

		var err error
		v, fact, err = grow(&cfg, v, fact, x, vkk)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

package eigen

import (
	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/dense"
)

// Factorization is a BMGSH factorization Q*R = X. Q has orthonormal
// columns, R is upper triangular, and T is the upper triangular correction
// factor satisfying T = inv(triu(QᵀQ)) in exact arithmetic. Keeping T
// current is what lets a warm restart extend Q without reorthogonalizing
// the columns already done.
type Factorization[T constraints.Float] struct {
	Q *dense.Matrix[T]
	R *dense.Matrix[T]
	T *dense.Matrix[T]
}

// BMGSH orthonormalizes the columns of x block by block (Barlow 2019).
// block must divide the column count. If warm is non-nil, its columns are
// taken as already factored and only the remaining blocks of x are
// processed; warm's column count must be a multiple of block. The fail is
// immediate and explicit: no silent fallback to a different blocking.
func BMGSH[T constraints.Float](x *dense.Matrix[T], block int, warm *Factorization[T]) (*Factorization[T], error) {
	m, n := x.Rows(), x.Cols()
	if block <= 0 || n%block != 0 {
		return nil, &BlockSizeError{Block: block, Cols: n}
	}

	q := dense.New[T](m, n)
	r := dense.New[T](n, n)
	tm := dense.New[T](n, n)

	start := 1
	if warm != nil {
		a := warm.Q.Cols()
		if a == 0 || a%block != 0 || a > n {
			return nil, &BlockSizeError{Block: block, Cols: a}
		}
		q.SetCols(0, warm.Q)
		r.SetSub(0, 0, warm.R)
		tm.SetSub(0, 0, warm.T)
		start = a / block
	} else {
		q0, r0 := dense.QR(x.ColsView(0, block))
		q.SetCols(0, q0)
		r.SetSub(0, 0, r0)
		tm.SetSub(0, 0, dense.Identity[T](block))
	}

	for k := start; k < n/block; k++ {
		a := k * block
		qa := q.ColsView(0, a)
		ta := tm.Block(0, 0, a, a)
		xb := x.ColsView(a, a+block)

		// H_k = T_aᵀ (Q_aᵀ X_b)
		hk := dense.MulAtB(ta, dense.MulAtB(qa, xb))

		// Y_k = X_b - Q_a H_k, then a local QR
		yk := xb.Clone()
		yk.Sub(dense.Mul(qa, hk))
		qkk, rkk := dense.QR(yk)

		// correction coupling the new block to the old columns
		fk := dense.MulAtB(qa, qkk)
		gk := dense.Mul(ta, fk)
		gk.Scale(-1)

		q.SetCols(a, qkk)
		r.SetSub(0, a, hk)
		r.SetSub(a, a, rkk)
		tm.SetSub(0, a, gk)
		tm.SetSub(a, a, dense.Identity[T](block))
	}

	return &Factorization[T]{Q: q, R: r, T: tm}, nil
}

package eigen

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/kgasperich/arches/dense"
	"github.com/kgasperich/arches/internal/collective"
)

// DavidsonDistributed runs block Davidson over an operator split into
// additive parts, one worker goroutine per trial vector. Each worker
// applies its part to the whole basis and the partial products are
// all-reduced; each worker then owns one Ritz column, preconditioning it
// and gathering the block. Reductions run in rank order, so for the same
// inputs the iterates match the serial method.
//
// The number of parts fixes the block size; WithBlockSize must agree with
// it if given.
func DavidsonDistributed[T constraints.Float](parts []Operator[T], opts ...Option[T]) (*Result[T], error) {
	nw := len(parts)
	cfg := newConfig(append([]Option[T]{WithBlockSize[T](nw)}, opts...)...)
	if cfg.block != nw {
		return nil, &WorkerCountError{Workers: nw, Block: cfg.block}
	}

	m := parts[0].Dim()
	for _, p := range parts {
		if p.Dim() != m {
			return nil, &DimensionError{Want: m, Got: p.Dim()}
		}
	}
	if err := cfg.validate(m); err != nil {
		return nil, err
	}

	// the full diagonal and subdiagonal are sums over parts
	diag := make([]T, m)
	buf := make([]T, m)
	for _, p := range parts {
		p.Diag(buf)
		for i, v := range buf {
			diag[i] += v
		}
	}
	var sub []T
	if cfg.pre == PreconditionerTridiagonal {
		sub = make([]T, m-1)
		sbuf := make([]T, m-1)
		for _, p := range parts {
			sd, ok := p.(SubDiagonaler[T])
			if !ok {
				return nil, ErrNoSubDiagonal
			}
			sd.SubDiag(sbuf)
			for i, v := range sbuf {
				sub[i] += v
			}
		}
	}

	group := collective.NewGroup[T](nw)
	results := make([]*Result[T], nw)

	var g errgroup.Group
	for rank := 0; rank < nw; rank++ {
		rank := rank
		g.Go(func() error {
			r, err := davidsonWorker(parts[rank], rank, group, &cfg, m, diag, sub)
			results[rank] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// all workers hold identical results
	return results[0], nil
}

// davidsonWorker is one rank of the distributed iteration. Every rank
// carries a full copy of the basis; only the operator product and the
// preconditioning are divided.
func davidsonWorker[T constraints.Float](part Operator[T], rank int, group *collective.Group[T], cfg *config[T], m int, diag, sub []T) (*Result[T], error) {
	v := cfg.initialBasis(m)
	fact := &Factorization[T]{
		Q: v,
		R: dense.Identity[T](cfg.block),
		T: dense.Identity[T](cfg.block),
	}

	res := &Result[T]{}
	for it := 0; it < cfg.maxIter; it++ {
		res.Iterations = it + 1

		// W = sum over parts of part @ V
		w := applyColumns(part, v)
		group.AllReduceSum(rank, w.Data())
		vals, x, wx := ritzStep(v, w, cfg.block)

		// own residual column, norms gathered across ranks
		rcol := make([]T, m)
		own := residualColumn(rcol, x, wx, vals, rank)
		rnormsT := make([]T, cfg.block)
		group.AllGather(rank, []T{T(own)}, rnormsT)
		rnorms := make([]float64, cfg.block)
		for j, rn := range rnormsT {
			rnorms[j] = float64(rn)
		}

		// own trial vector, block gathered across ranks
		mine := make([]T, m)
		if cfg.pre == PreconditionerTridiagonal {
			precondTridiagonal(mine, rcol, diag, sub, vals[rank])
		} else {
			precondDiagonal(mine, rcol, diag, vals[rank])
		}
		vkk := dense.New[T](m, cfg.block)
		group.AllGather(rank, mine, vkk.Data())

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
		v, fact, err = grow(cfg, v, fact, x, vkk)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

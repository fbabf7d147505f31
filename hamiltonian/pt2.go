package hamiltonian

import (
	"context"
	"runtime"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/integrals"
	"github.com/kgasperich/arches/internal/floats"
)

// NumeratorChunk accumulates one chunk's share of the PT2 numerator sums
// into out: out[a] += sum_I c_I H[I, a] restricted to the chunk's
// integrals. Summing over all chunks of a table yields the full coupling of
// each external determinant to the wavefunction.
func NumeratorChunk[T constraints.Float](ch *integrals.Chunk[T], basis []determinant.Determinant, coef []T, external []determinant.Determinant, out []T) {
	k := KernelsFor[T](ch.Category())
	if k.OffDiagonal == nil {
		return
	}
	for a, ext := range external {
		var s T
		for n, d := range basis {
			if dup, ddn := determinant.Degree(d, ext); dup+ddn > 2 {
				continue
			}
			s += coef[n] * k.OffDiagonal(ch, d, ext)
		}
		out[a] += s
	}
}

// DenominatorChunk accumulates one chunk's share of the external diagonal
// elements H[a, a] into out. E0 and summation over chunks complete the
// denominators.
func DenominatorChunk[T constraints.Float](ch *integrals.Chunk[T], external []determinant.Determinant, out []T) {
	k := KernelsFor[T](ch.Category())
	if k.Diagonal == nil {
		return
	}
	for a, ext := range external {
		out[a] += k.Diagonal(ch, ext)
	}
}

// PT2Numerator computes sum_I c_I H[I, a] for every external determinant,
// accumulating chunks concurrently and reducing in chunk order.
func (a *Assembler[T]) PT2Numerator(ctx context.Context, basis []determinant.Determinant, coef []T, external []determinant.Determinant) ([]T, error) {
	if len(coef) != len(basis) {
		return nil, &LengthMismatchError{Want: len(basis), Got: len(coef)}
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
			buf := make([]T, len(external))
			NumeratorChunk(b.chunk, basis, coef, external, buf)
			parts[n] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, len(external))
	for _, buf := range parts {
		for i, v := range buf {
			out[i] += v
		}
	}
	return out, nil
}

// PT2Denominator computes the diagonal elements H[a, a] of the external
// determinants, E0 included.
func (a *Assembler[T]) PT2Denominator(external []determinant.Determinant) []T {
	out := make([]T, len(external))
	for i := range out {
		out[i] = a.e0
	}
	for _, b := range a.bindings {
		DenominatorChunk(b.chunk, external, out)
	}
	return out
}

// PT2Result carries Epstein-Nesbet second-order contributions. Skipped
// counts external determinants whose energy gap fell below the degeneracy
// floor; their contributions are recorded as zero rather than blowing up.
type PT2Result[T constraints.Float] struct {
	Contributions []T
	Skipped       int
}

// Total returns the summed PT2 correction.
func (r *PT2Result[T]) Total() T {
	var s T
	for _, c := range r.Contributions {
		s += c
	}
	return s
}

// PT2Contributions forms e_a = (sum_I c_I H[I,a])^2 / (E - H[a,a]) from
// precomputed numerator and denominator vectors. The degeneracy floor is
// 1e4 * eps(T) * max(1, |E|).
func PT2Contributions[T constraints.Float](energy T, num, den []T) (*PT2Result[T], error) {
	if len(num) != len(den) {
		return nil, &LengthMismatchError{Want: len(num), Got: len(den)}
	}

	floor := T(1e4 * floats.Eps[T]())
	if e := floats.Abs(energy); e > 1 {
		floor *= e
	}

	res := &PT2Result[T]{Contributions: make([]T, len(num))}
	for i := range num {
		gap := energy - den[i]
		if floats.Abs(gap) < floor {
			res.Skipped++
			continue
		}
		res.Contributions[i] = num[i] * num[i] / gap
	}
	return res, nil
}

// PT2 scores the external space of a wavefunction in one call: numerators,
// denominators and contributions against the given variational energy.
func (a *Assembler[T]) PT2(ctx context.Context, basis []determinant.Determinant, coef []T, external []determinant.Determinant, energy T) (*PT2Result[T], error) {
	num, err := a.PT2Numerator(ctx, basis, coef, external)
	if err != nil {
		return nil, err
	}
	return PT2Contributions(energy, num, a.PT2Denominator(external))
}

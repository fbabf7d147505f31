package selection

import (
	"context"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/dense"
	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/eigen"
	"github.com/kgasperich/arches/hamiltonian"
	"github.com/kgasperich/arches/internal/topk"
)

// Phase names the two states a selection step alternates between.
type Phase int

const (
	// PhaseScoring evaluates PT2 contributions of the external space.
	PhaseScoring Phase = iota
	// PhaseDiagonalizing solves the enlarged basis for its ground state.
	PhaseDiagonalizing
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	if p == PhaseScoring {
		return "scoring"
	}
	return "diagonalizing"
}

type config[T constraints.Float] struct {
	denseCutoff int
	constraint  *determinant.Constraint
	eigenOpts   []eigen.Option[T]
}

// Option configures selection steps.
type Option[T constraints.Float] func(*config[T])

// WithDenseCutoff sets the basis size up to which diagonalization uses a
// dense eigensolver instead of Davidson. Default 128.
func WithDenseCutoff[T constraints.Float](n int) Option[T] {
	return func(c *config[T]) { c.denseCutoff = n }
}

// WithConstraint restricts external space generation.
func WithConstraint[T constraints.Float](con *determinant.Constraint) Option[T] {
	return func(c *config[T]) { c.constraint = con }
}

// WithEigenOptions forwards options to the Davidson solver used above the
// dense cutoff.
func WithEigenOptions[T constraints.Float](opts ...eigen.Option[T]) Option[T] {
	return func(c *config[T]) { c.eigenOpts = opts }
}

// State is the wavefunction after a selection step: the basis, its
// normalized ground-state coefficients, the variational energy, and the
// PT2 scoring of the step that produced it.
type State[T constraints.Float] struct {
	Dets   []determinant.Determinant
	Coef   []T
	Energy T
	PT2    *hamiltonian.PT2Result[T]
	// Added is the number of determinants adopted by the step.
	Added int
}

// EnergyPT2 returns the PT2-corrected total energy.
func (s *State[T]) EnergyPT2() T {
	if s.PT2 == nil {
		return s.Energy
	}
	return s.Energy + s.PT2.Total()
}

func newConfig[T constraints.Float](opts ...Option[T]) config[T] {
	cfg := config[T]{denseCutoff: 128}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Step performs one selection iteration on a wavefunction: score the
// external space, adopt the n lowest PT2 contributions, and rediagonalize.
// n = 0 scores without growing; the basis is still diagonalized, so the
// returned energy and coefficients match direct diagonalization of the
// unmodified basis. The PT2 denominators use the energy of the input
// coefficients.
func Step[T constraints.Float](ctx context.Context, asm *hamiltonian.Assembler[T], dets []determinant.Determinant, coef []T, n int, opts ...Option[T]) (*State[T], error) {
	if len(coef) != len(dets) {
		return nil, &hamiltonian.LengthMismatchError{Want: len(dets), Got: len(coef)}
	}
	cfg := newConfig(opts...)

	h, err := asm.Sparse(ctx, dets)
	if err != nil {
		return nil, err
	}
	coef = normalized(coef)
	energy := rayleigh(h, coef)

	// scoring phase
	external := determinant.ConnectedFromBasis(dets, cfg.constraint)
	pt2, err := asm.PT2(ctx, dets, coef, external, energy)
	if err != nil {
		return nil, err
	}

	if n <= 0 || len(external) == 0 {
		return settled(ctx, asm, dets, pt2, &cfg)
	}

	best := topk.New[T](n)
	for i, e := range pt2.Contributions {
		best.Push(i, e)
	}
	picked := best.Items()

	grown := make([]determinant.Determinant, 0, len(dets)+len(picked))
	grown = append(grown, dets...)
	for _, it := range picked {
		grown = append(grown, external[it.Index])
	}

	// diagonalizing phase
	newEnergy, newCoef, err := ground(ctx, asm, grown, &cfg)
	if err != nil {
		return nil, err
	}
	return &State[T]{
		Dets:   grown,
		Coef:   newCoef,
		Energy: newEnergy,
		PT2:    pt2,
		Added:  len(picked),
	}, nil
}

// Run iterates Step until stop returns true or a step adopts nothing.
func Run[T constraints.Float](ctx context.Context, asm *hamiltonian.Assembler[T], dets []determinant.Determinant, coef []T, n int, stop func(*State[T]) bool, opts ...Option[T]) (*State[T], error) {
	state := &State[T]{Dets: dets, Coef: coef}
	for {
		next, err := Step(ctx, asm, state.Dets, state.Coef, n, opts...)
		if err != nil {
			return nil, err
		}
		state = next
		if state.Added == 0 || stop(state) {
			return state, nil
		}
	}
}

// settled diagonalizes the unmodified basis. A step that adopts nothing
// still returns an eigenpair, never the energy of the input coefficients.
func settled[T constraints.Float](ctx context.Context, asm *hamiltonian.Assembler[T], dets []determinant.Determinant, pt2 *hamiltonian.PT2Result[T], cfg *config[T]) (*State[T], error) {
	energy, coef, err := ground(ctx, asm, dets, cfg)
	if err != nil {
		return nil, err
	}
	return &State[T]{Dets: dets, Coef: coef, Energy: energy, PT2: pt2}, nil
}

// ground solves the basis for its lowest eigenpair, densely below the
// cutoff and with Davidson above it.
func ground[T constraints.Float](ctx context.Context, asm *hamiltonian.Assembler[T], dets []determinant.Determinant, cfg *config[T]) (T, []T, error) {
	if len(dets) <= cfg.denseCutoff {
		hd := asm.Dense(dets)
		vals, vecs := dense.EigSym(hd)
		return vals[0], append([]T(nil), vecs.Col(0)...), nil
	}

	h, err := asm.Sparse(ctx, dets)
	if err != nil {
		return 0, nil, err
	}
	res, err := eigen.Davidson[T](h, cfg.eigenOpts...)
	if err != nil {
		return 0, nil, err
	}
	return res.Values[0], append([]T(nil), res.Vectors.Col(0)...), nil
}

// rayleigh evaluates xᵀHx for a unit-norm x.
func rayleigh[T constraints.Float](h *hamiltonian.CSR[T], x []T) T {
	y := make([]T, len(x))
	h.MatVec(y, x)
	var e T
	for i := range x {
		e += x[i] * y[i]
	}
	return e
}

// normalized returns a unit-norm copy of x.
func normalized[T constraints.Float](x []T) []T {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	out := append([]T(nil), x...)
	if sum == 0 {
		return out
	}
	inv := T(1 / math.Sqrt(sum))
	for i := range out {
		out[i] *= inv
	}
	return out
}

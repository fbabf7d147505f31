package arches

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/hamiltonian"
	"github.com/kgasperich/arches/integrals"
	"github.com/kgasperich/arches/selection"
)

// System bundles the inputs of a calculation: orbital and electron counts,
// the core energy, and the category-sorted integral chunks.
type System[T constraints.Float] struct {
	Norb   int
	Nelec  int
	E0     T
	Chunks []*integrals.Chunk[T]
}

// LoadSystem reads the FCIDUMP file selected by a glob pattern and chunks
// its integrals. When several files match, the lexically first one wins.
func LoadSystem[T constraints.Float](ctx context.Context, pattern string, opts ...Option[T]) (*System[T], error) {
	cfg := newConfig(opts...)

	path, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	tab, err := integrals.LoadFCIDUMP[T](path)
	if err != nil {
		cfg.logger.LogLoad(ctx, path, 0, 0, 0, err)
		return nil, err
	}
	chunks := tab.Chunks(cfg.chunkSize)
	cfg.logger.LogLoad(ctx, path, tab.Norb(), tab.Nelec(), len(chunks), nil)

	return &System[T]{
		Norb:   tab.Norb(),
		Nelec:  tab.Nelec(),
		E0:     tab.E0(),
		Chunks: chunks,
	}, nil
}

// Assembler returns a Hamiltonian assembler over the system's chunks.
func (s *System[T]) Assembler() *hamiltonian.Assembler[T] {
	return hamiltonian.NewAssembler(s.E0, s.Chunks)
}

// Ground returns the aufbau reference determinant: the lowest orbitals
// filled, with any odd electron placed in the alpha spin channel.
func (s *System[T]) Ground() (determinant.Determinant, error) {
	return determinant.Ground(s.Norb, (s.Nelec+1)/2, s.Nelec/2)
}

// LoadState reads the wavefunction file selected by a glob pattern.
func LoadState[T constraints.Float](pattern string, norb int) (*integrals.Wavefunction[T], error) {
	path, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	return integrals.LoadWavefunction[T](path, norb)
}

// Run grows a wavefunction on the system, adopting up to n determinants per
// step, until stop returns true or the external space is exhausted.
func Run[T constraints.Float](ctx context.Context, sys *System[T], wf *integrals.Wavefunction[T], n int, stop func(*selection.State[T]) bool, opts ...Option[T]) (*selection.State[T], error) {
	if n <= 0 {
		return nil, &ErrBadSelectionCount{Count: n}
	}
	cfg := newConfig(opts...)

	iteration := 0
	logged := func(s *selection.State[T]) bool {
		iteration++
		cfg.logger.LogSelectionStep(ctx, iteration, len(s.Dets), s.Added, s.PT2.Skipped,
			float64(s.Energy), float64(s.PT2.Total()))
		return stop(s)
	}
	return selection.Run(ctx, sys.Assembler(), wf.Dets, wf.Coef, n, logged, cfg.selOpts...)
}

func resolve(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatchingFile, pattern)
	}
	return matches[0], nil
}

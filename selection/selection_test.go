package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgasperich/arches/dense"
	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/eigen"
	"github.com/kgasperich/arches/hamiltonian"
	"github.com/kgasperich/arches/integrals"
)

// twoOrbitalSystem is a closed-form system small enough to verify by hand:
// two orbitals, one electron per spin, four determinants in the full space.
// The single-determinant energy is -0.875 and its PT2 correction
// -0.0360775395.
func twoOrbitalSystem(t *testing.T) (*hamiltonian.Assembler[float64], []determinant.Determinant) {
	t.Helper()
	tab := integrals.NewTable[float64](2)
	tab.SetE0(1.0)
	require.NoError(t, tab.SetOneElectron(0, 0, -1.25))
	require.NoError(t, tab.SetOneElectron(1, 1, 0.5))
	require.NoError(t, tab.SetOneElectron(0, 1, 0.1))
	require.NoError(t, tab.SetTwoElectron(0, 0, 0, 0, 0.625))
	require.NoError(t, tab.SetTwoElectron(0, 1, 0, 1, 0.4))
	require.NoError(t, tab.SetTwoElectron(0, 0, 1, 1, 0.15))
	require.NoError(t, tab.SetTwoElectron(0, 0, 0, 1, 0.05))
	require.NoError(t, tab.SetTwoElectron(0, 1, 1, 1, 0.07))
	require.NoError(t, tab.SetTwoElectron(1, 1, 1, 1, 0.55))

	g, err := determinant.Ground(2, 1, 1)
	require.NoError(t, err)
	return hamiltonian.NewAssembler(tab.E0(), tab.Chunks(0)), []determinant.Determinant{g}
}

func TestStepScoringOnly(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	s, err := Step(context.Background(), asm, basis, []float64{1}, 0)
	require.NoError(t, err)

	// n = 0 scores without growing the basis
	assert.Equal(t, 0, s.Added)
	require.Len(t, s.Dets, 1)
	assert.True(t, s.Dets[0].Equal(basis[0]))
	assert.InDelta(t, -0.875, s.Energy, 1e-12)
	assert.InDelta(t, -0.0360775395, s.PT2.Total(), 1e-6)
	assert.InDelta(t, s.Energy+s.PT2.Total(), s.EnergyPT2(), 1e-14)
	assert.Zero(t, s.PT2.Skipped)
}

func TestStepGrows(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	s, err := Step(context.Background(), asm, basis, []float64{1}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Added)
	require.Len(t, s.Dets, 4)
	require.Len(t, s.Coef, 4)

	// rediagonalized energy is variational: below the 1-det energy
	assert.Less(t, s.Energy, -0.875)

	var norm float64
	for _, c := range s.Coef {
		norm += c * c
	}
	assert.InDelta(t, 1.0, norm, 1e-10)
}

func TestStepRediagonalizesWithoutGrowth(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	full, err := Step(context.Background(), asm, basis, []float64{1}, 10)
	require.NoError(t, err)
	require.Len(t, full.Dets, 4)

	vals, _ := dense.EigSym(asm.Dense(full.Dets))

	// non-eigenvector input coefficients must not leak into the energy
	s, err := Step(context.Background(), asm, full.Dets, []float64{1, 0, 0, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Added)
	assert.InDelta(t, vals[0], s.Energy, 1e-12)

	var norm float64
	for _, c := range s.Coef {
		norm += c * c
	}
	assert.InDelta(t, 1.0, norm, 1e-10)
}

// uncoupledSystem has no off-diagonal integrals at all, so every external
// determinant scores exactly zero.
func uncoupledSystem(t *testing.T) (*hamiltonian.Assembler[float64], []determinant.Determinant) {
	t.Helper()
	tab := integrals.NewTable[float64](3)
	require.NoError(t, tab.SetOneElectron(0, 0, -1.0))
	require.NoError(t, tab.SetOneElectron(1, 1, 0.4))
	require.NoError(t, tab.SetOneElectron(2, 2, 0.9))

	g, err := determinant.Ground(3, 1, 1)
	require.NoError(t, err)
	return hamiltonian.NewAssembler(tab.E0(), tab.Chunks(0)), []determinant.Determinant{g}
}

func TestStepAdoptsLowestRegardlessOfSign(t *testing.T) {
	asm, basis := uncoupledSystem(t)

	s, err := Step(context.Background(), asm, basis, []float64{1}, 3)
	require.NoError(t, err)

	// the n lowest contributions are adopted even when none is negative
	assert.Equal(t, 3, s.Added)
	require.Len(t, s.Dets, 4)
	assert.InDelta(t, -2.0, s.Energy, 1e-12)
}

func TestStepCompleteSpace(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	full, err := Step(context.Background(), asm, basis, []float64{1}, 10)
	require.NoError(t, err)
	require.Len(t, full.Dets, 4)

	// the full CI space has no external determinants left
	again, err := Step(context.Background(), asm, full.Dets, full.Coef, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Added)
	assert.Len(t, again.Dets, 4)
	assert.InDelta(t, full.Energy, again.Energy, 1e-10)
	assert.Empty(t, again.PT2.Contributions)
}

func TestStepLengthMismatch(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)
	_, err := Step(context.Background(), asm, basis, []float64{1, 2}, 0)
	var lme *hamiltonian.LengthMismatchError
	require.ErrorAs(t, err, &lme)
}

func TestStepDavidsonPath(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	s, err := Step(context.Background(), asm, basis, []float64{1}, 3,
		WithDenseCutoff[float64](2),
		WithEigenOptions(
			eigen.WithBlockSize[float64](2),
			eigen.WithMaxSubspaceRank[float64](4),
			eigen.WithTolerance[float64](1e-10),
		),
	)
	require.NoError(t, err)
	require.Len(t, s.Dets, 4)

	// same ground state as the dense path
	d, err := Step(context.Background(), asm, basis, []float64{1}, 3)
	require.NoError(t, err)
	assert.InDelta(t, d.Energy, s.Energy, 1e-8)
}

func TestRun(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	steps := 0
	final, err := Run(context.Background(), asm, basis, []float64{1}, 1, func(s *State[float64]) bool {
		steps++
		return len(s.Dets) >= 3
	})
	require.NoError(t, err)
	assert.Len(t, final.Dets, 3)
	assert.Equal(t, 2, steps)
	assert.Less(t, final.Energy, -0.875)
}

func TestRunStopsWhenExhausted(t *testing.T) {
	asm, basis := twoOrbitalSystem(t)

	final, err := Run(context.Background(), asm, basis, []float64{1}, 10, func(*State[float64]) bool {
		return false
	})
	require.NoError(t, err)
	// growth stops on its own once the space is complete
	assert.Len(t, final.Dets, 4)
	assert.Equal(t, 0, final.Added)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "scoring", PhaseScoring.String())
	assert.Equal(t, "diagonalizing", PhaseDiagonalizing.String())
}

package arches

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/integrals"
	"github.com/kgasperich/arches/selection"
)

// Two orbitals, one electron per spin. The reference determinant has energy
// -0.875 and a PT2 correction of -0.0360775395, both verifiable by hand.
const twoOrbitalFCIDUMP = ` &FCI NORB=2,NELEC=2,MS2=0,
  ORBSYM=1,1,
  ISYM=1,
 &END
  0.625  1  1  1  1
  0.4    1  1  2  2
  0.15   1  2  1  2
  0.05   1  1  1  2
  0.07   1  2  2  2
  0.55   2  2  2  2
 -1.25   1  1  0  0
  0.1    1  2  0  0
  0.5    2  2  0  0
  1.0    0  0  0  0
`

func writeSystem(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "two_orbital.fcidump")
	require.NoError(t, os.WriteFile(path, []byte(twoOrbitalFCIDUMP), 0o644))
	return filepath.Join(dir, "*.fcidump")
}

func TestLoadSystem(t *testing.T) {
	sys, err := LoadSystem[float64](context.Background(), writeSystem(t))
	require.NoError(t, err)

	assert.Equal(t, 2, sys.Norb)
	assert.Equal(t, 2, sys.Nelec)
	assert.InDelta(t, 1.0, sys.E0, 1e-15)
	assert.NotEmpty(t, sys.Chunks)
}

func TestLoadSystemNoMatch(t *testing.T) {
	_, err := LoadSystem[float64](context.Background(), filepath.Join(t.TempDir(), "*.fcidump"))
	require.ErrorIs(t, err, ErrNoMatchingFile)
}

func TestReferenceEnergyAndPT2(t *testing.T) {
	sys, err := LoadSystem[float64](context.Background(), writeSystem(t))
	require.NoError(t, err)

	g, err := sys.Ground()
	require.NoError(t, err)

	s, err := selection.Step(context.Background(), sys.Assembler(),
		[]determinant.Determinant{g}, []float64{1}, 0)
	require.NoError(t, err)
	assert.InDelta(t, -0.875, s.Energy, 1e-12)
	assert.InDelta(t, -0.0360775395, s.PT2.Total(), 1e-6)
}

func TestRunToFullSpace(t *testing.T) {
	sys, err := LoadSystem[float64](context.Background(), writeSystem(t),
		WithLogger[float64](NewTextLogger(slog.LevelError)))
	require.NoError(t, err)

	g, err := sys.Ground()
	require.NoError(t, err)
	wf := &integrals.Wavefunction[float64]{
		Coef: []float64{1},
		Dets: []determinant.Determinant{g},
	}

	final, err := Run(context.Background(), sys, wf, 10,
		func(*selection.State[float64]) bool { return false })
	require.NoError(t, err)

	// four determinants span the full CI space of this system
	assert.Len(t, final.Dets, 4)
	assert.Equal(t, 0, final.Added)
	assert.Less(t, final.Energy, -0.875)
}

func TestRunRejectsBadCount(t *testing.T) {
	sys, err := LoadSystem[float64](context.Background(), writeSystem(t))
	require.NoError(t, err)

	g, err := sys.Ground()
	require.NoError(t, err)
	wf := &integrals.Wavefunction[float64]{
		Coef: []float64{1},
		Dets: []determinant.Determinant{g},
	}

	_, err = Run(context.Background(), sys, wf, 0,
		func(*selection.State[float64]) bool { return true })
	var bad *ErrBadSelectionCount
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 0, bad.Count)
}

func TestLoadState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guess.wf")
	require.NoError(t, os.WriteFile(path, []byte("1.0 +- +-\n"), 0o644))

	wf, err := LoadState[float64](filepath.Join(dir, "*.wf"), 2)
	require.NoError(t, err)
	require.Len(t, wf.Dets, 1)
	assert.InDelta(t, 1.0, wf.Coef[0], 1e-15)

	_, err = LoadState[float64](filepath.Join(dir, "*.missing"), 2)
	require.ErrorIs(t, err, ErrNoMatchingFile)
}

func TestLoggerHelpers(t *testing.T) {
	l := NoopLogger().WithIteration(3).WithDeterminants(10).WithOrbitals(4)
	require.NotNil(t, l)
	// no-op logger must swallow everything without side effects
	l.LogLoad(context.Background(), "x", 0, 0, 0, os.ErrNotExist)
	l.LogSelectionStep(context.Background(), 1, 2, 3, 0, -1.0, -0.01)
	l.LogConvergence(context.Background(), 5, true, 1e-9)
	l.LogConvergence(context.Background(), 100, false, 1e-3)
}

package determinant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpin(t *testing.T, norb int, orbs ...int) SpinDeterminant {
	t.Helper()
	s, err := SpinFromOrbitals(norb, orbs)
	require.NoError(t, err)
	return s
}

func TestSpinConstruction(t *testing.T) {
	s := mustSpin(t, 5, 0, 2, 4)
	assert.Equal(t, 5, s.Norb())
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []int{0, 2, 4}, s.Orbitals())
	assert.True(t, s.Occupied(2))
	assert.False(t, s.Occupied(1))

	_, err := SpinFromOrbitals(5, []int{5})
	var oor *OrbitalRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 5, oor.Orbital)

	g, err := GroundSpin(6, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, g.Orbitals())

	_, err = GroundSpin(3, 4)
	require.ErrorIs(t, err, ErrElectronCount)
}

func TestSpinValueSemantics(t *testing.T) {
	s := mustSpin(t, 4, 0, 1)
	e := s.Excite(1, 3)
	assert.Equal(t, []int{0, 1}, s.Orbitals())
	assert.Equal(t, []int{0, 3}, e.Orbitals())

	w := s.WithOrbital(2, true)
	assert.False(t, s.Occupied(2))
	assert.True(t, w.Occupied(2))

	r := s.WithRange(0, 4, true)
	assert.Equal(t, 4, r.Count())
	assert.Equal(t, 2, s.Count())
}

func TestExcitationDegree(t *testing.T) {
	a := mustSpin(t, 6, 0, 1, 2)
	assert.Equal(t, 0, ExcitationDegree(a, a))
	assert.Equal(t, 1, ExcitationDegree(a, mustSpin(t, 6, 0, 1, 5)))
	assert.Equal(t, 2, ExcitationDegree(a, mustSpin(t, 6, 0, 4, 5)))
	assert.Equal(t, 3, ExcitationDegree(a, mustSpin(t, 6, 3, 4, 5)))
	assert.Equal(t, 1, ExcitationDegree(mustSpin(t, 6, 0, 1, 5), a))
}

func TestDeterminantDegree(t *testing.T) {
	d1, err := Ground(6, 3, 2)
	require.NoError(t, err)
	d2 := New(d1.Alpha.Excite(2, 4), d1.Beta.Excite(1, 5))
	dup, ddn := Degree(d1, d2)
	assert.Equal(t, 1, dup)
	assert.Equal(t, 1, ddn)
	assert.False(t, d1.Equal(d2))
	assert.NotEqual(t, d1.Key(), d2.Key())
}

// enumSpins yields every occupation mask over norb orbitals.
func enumSpins(norb int) []SpinDeterminant {
	var out []SpinDeterminant
	for m := 0; m < 1<<norb; m++ {
		s := NewSpin(norb)
		for o := 0; o < norb; o++ {
			if m&(1<<o) != 0 {
				s = s.WithOrbital(o, true)
			}
		}
		out = append(out, s)
	}
	return out
}

// occBelow counts the occupied orbitals of d strictly below orbital idx.
func occBelow(d SpinDeterminant, idx int) int {
	n := 0
	for _, o := range d.Orbitals() {
		if o < idx {
			n++
		}
	}
	return n
}

// walkPhaseSingle is the orbital-list-walking reference for PhaseSingle.
func walkPhaseSingle(from SpinDeterminant, h, p int) int {
	to := from.Excite(h, p)
	if (occBelow(from, h)+occBelow(to, p))&1 == 1 {
		return -1
	}
	return 1
}

// walkPhaseDouble is the orbital-list-walking reference for PhaseDoubleSame,
// including the hole/particle crossing correction.
func walkPhaseDouble(from SpinDeterminant, h1, h2, p1, p2 int) int {
	to := from.Excite(h1, p1).Excite(h2, p2)
	n := occBelow(from, h1) + occBelow(to, p1) + occBelow(to, p2) + occBelow(from, h2)
	phase := 1
	if n&1 == 1 {
		phase = -1
	}
	minhp := h2
	if p2 < minhp {
		minhp = p2
	}
	maxhp := h1
	if p1 > maxhp {
		maxhp = p1
	}
	if (minhp < maxhp) != (h2 < p1 || p2 < h1) {
		phase = -phase
	}
	return phase
}

func TestPhaseSingleExhaustive(t *testing.T) {
	const norb = 6
	for _, s := range enumSpins(norb) {
		for _, h := range s.Orbitals() {
			for p := 0; p < norb; p++ {
				if s.Occupied(p) {
					continue
				}
				got := PhaseSingle(s, h, p)
				assert.Contains(t, []int{-1, 1}, got)
				assert.Equal(t, walkPhaseSingle(s, h, p), got,
					"det=%v h=%d p=%d", s.Orbitals(), h, p)
			}
		}
	}
}

func TestPhaseDoubleSameExhaustive(t *testing.T) {
	const norb = 6
	for _, s := range enumSpins(norb) {
		holes := s.Orbitals()
		var parts []int
		for p := 0; p < norb; p++ {
			if !s.Occupied(p) {
				parts = append(parts, p)
			}
		}
		for i := 0; i < len(holes); i++ {
			for j := i + 1; j < len(holes); j++ {
				for k := 0; k < len(parts); k++ {
					for l := k + 1; l < len(parts); l++ {
						h1, h2, p1, p2 := holes[i], holes[j], parts[k], parts[l]
						got := PhaseDoubleSame(s, h1, h2, p1, p2)
						assert.Equal(t, walkPhaseDouble(s, h1, h2, p1, p2), got,
							"det=%v h1=%d h2=%d p1=%d p2=%d", holes, h1, h2, p1, p2)
					}
				}
			}
		}
	}
}

func TestDecompose(t *testing.T) {
	s := mustSpin(t, 6, 0, 1, 2)

	id, err := Decompose(s, s)
	require.NoError(t, err)
	assert.Equal(t, 0, id.Degree)
	assert.Equal(t, 1, id.Phase)

	single, err := Decompose(s, s.Excite(1, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Degree)
	assert.Equal(t, 1, single.Holes[0])
	assert.Equal(t, 4, single.Parts[0])
	assert.Equal(t, PhaseSingle(s, 1, 4), single.Phase)

	double, err := Decompose(s, s.Excite(0, 5).Excite(2, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, double.Degree)
	assert.Equal(t, [2]int{0, 2}, double.Holes)
	assert.Equal(t, [2]int{3, 5}, double.Parts)
	assert.Equal(t, PhaseDoubleSame(s, 0, 2, 3, 5), double.Phase)

	_, err = Decompose(s, mustSpin(t, 6, 3, 4, 5))
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestConnectedReferenceSet(t *testing.T) {
	// 3 orbitals, alpha occupying {0,1}, beta occupying {0}: two alpha
	// singles, two beta singles, four opposite-spin doubles, no same-spin
	// doubles. Eight connected determinants in total.
	d := New(mustSpin(t, 3, 0, 1), mustSpin(t, 3, 0))

	want := []Determinant{
		New(mustSpin(t, 3, 1, 2), mustSpin(t, 3, 0)),
		New(mustSpin(t, 3, 0, 2), mustSpin(t, 3, 0)),
		New(mustSpin(t, 3, 0, 1), mustSpin(t, 3, 1)),
		New(mustSpin(t, 3, 0, 1), mustSpin(t, 3, 2)),
		New(mustSpin(t, 3, 1, 2), mustSpin(t, 3, 1)),
		New(mustSpin(t, 3, 1, 2), mustSpin(t, 3, 2)),
		New(mustSpin(t, 3, 0, 2), mustSpin(t, 3, 1)),
		New(mustSpin(t, 3, 0, 2), mustSpin(t, 3, 2)),
	}

	got := Connected(d, nil)
	require.Len(t, got, 8)

	keys := func(ds []Determinant) map[string]bool {
		m := make(map[string]bool, len(ds))
		for _, x := range ds {
			m[x.Key()] = true
		}
		return m
	}
	assert.Equal(t, keys(want), keys(got))
	assert.NotContains(t, keys(got), d.Key())
}

func TestConnectedCounts(t *testing.T) {
	// 4 orbitals, 2 alpha + 1 beta electrons: 4 alpha singles, 3 beta
	// singles, 1 alpha double, 12 opposite-spin doubles.
	d, err := Ground(4, 2, 1)
	require.NoError(t, err)
	got := Connected(d, nil)
	assert.Len(t, got, 4+3+1+12)

	seen := make(map[string]struct{})
	for _, e := range got {
		seen[e.Key()] = struct{}{}
	}
	assert.Len(t, seen, len(got), "duplicates in connected set")
}

func TestConnectedConstraint(t *testing.T) {
	d := New(mustSpin(t, 3, 0, 1), mustSpin(t, 3, 0))
	c := &Constraint{
		Holes:     mustSpin(t, 3, 1),
		Particles: mustSpin(t, 3, 2),
	}

	got := Connected(d, c)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(New(mustSpin(t, 3, 0, 2), mustSpin(t, 3, 0))))

	// AllowAll matches the unconstrained set.
	assert.Len(t, Connected(d, AllowAll(3)), len(Connected(d, nil)))
}

func TestConnectedFromBasis(t *testing.T) {
	d0 := New(mustSpin(t, 3, 0, 1), mustSpin(t, 3, 0))
	d1 := New(mustSpin(t, 3, 0, 2), mustSpin(t, 3, 0))

	ext := ConnectedFromBasis([]Determinant{d0, d1}, nil)

	seen := make(map[string]struct{})
	for _, e := range ext {
		seen[e.Key()] = struct{}{}
	}
	assert.Len(t, seen, len(ext), "duplicates in external space")
	assert.NotContains(t, seen, d0.Key())
	assert.NotContains(t, seen, d1.Key())

	// union minus basis: every member connects to at least one basis det
	for _, e := range ext {
		du0, dd0 := Degree(e, d0)
		du1, dd1 := Degree(e, d1)
		ok := du0+dd0 <= 2 || du1+dd1 <= 2
		assert.True(t, ok, "external det not connected to basis")
	}
}

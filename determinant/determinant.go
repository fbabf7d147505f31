package determinant

import (
	"github.com/kgasperich/arches/internal/detbits"
)

// SpinDeterminant is the occupation mask of one spin channel over orbitals
// [0, Norb). The zero value is unusable; construct with NewSpin,
// SpinFromOrbitals or GroundSpin.
//
// SpinDeterminant is a value type: mutating operations return a modified
// copy and never touch the receiver.
type SpinDeterminant struct {
	bits detbits.Vector
}

// NewSpin returns an empty spin determinant over norb orbitals.
func NewSpin(norb int) SpinDeterminant {
	return SpinDeterminant{bits: detbits.New(norb)}
}

// SpinFromOrbitals returns a spin determinant with exactly the given
// orbitals occupied.
func SpinFromOrbitals(norb int, orbs []int) (SpinDeterminant, error) {
	s := NewSpin(norb)
	for _, o := range orbs {
		if o < 0 || o >= norb {
			return SpinDeterminant{}, &OrbitalRangeError{Orbital: o, Norb: norb}
		}
		s.bits.Set(o, true)
	}
	return s, nil
}

// GroundSpin returns the spin determinant with the lowest nelec orbitals
// occupied.
func GroundSpin(norb, nelec int) (SpinDeterminant, error) {
	if nelec < 0 || nelec > norb {
		return SpinDeterminant{}, ErrElectronCount
	}
	s := NewSpin(norb)
	s.bits.SetRange(0, nelec, true)
	return s, nil
}

// Norb returns the orbital range width.
func (s SpinDeterminant) Norb() int { return s.bits.Len() }

// Occupied reports whether orbital o is occupied.
func (s SpinDeterminant) Occupied(o int) bool { return s.bits.Test(o) }

// Count returns the number of occupied orbitals.
func (s SpinDeterminant) Count() int { return s.bits.Count() }

// Orbitals returns the occupied orbitals in ascending order.
func (s SpinDeterminant) Orbitals() []int { return s.bits.Ones(nil) }

// WithOrbital returns a copy of s with orbital o set to occ.
func (s SpinDeterminant) WithOrbital(o int, occ bool) SpinDeterminant {
	out := SpinDeterminant{bits: s.bits.Clone()}
	out.bits.Set(o, occ)
	return out
}

// WithRange returns a copy of s with all orbitals in [lo, hi) set to occ.
func (s SpinDeterminant) WithRange(lo, hi int, occ bool) SpinDeterminant {
	out := SpinDeterminant{bits: s.bits.Clone()}
	out.bits.SetRange(lo, hi, occ)
	return out
}

// Excite returns a copy of s with hole h vacated and particle p occupied.
func (s SpinDeterminant) Excite(h, p int) SpinDeterminant {
	out := SpinDeterminant{bits: s.bits.Clone()}
	out.bits.Set(h, false)
	out.bits.Set(p, true)
	return out
}

// Equal reports whether s and o have the same width and occupation.
func (s SpinDeterminant) Equal(o SpinDeterminant) bool { return s.bits.Equal(o.bits) }

// Key returns a map key identifying the occupation.
func (s SpinDeterminant) Key() string { return s.bits.Key() }

// ExcitationDegree returns the excitation degree between two spin
// determinants of equal width and electron count: half the popcount of the
// XOR of their masks.
func ExcitationDegree(a, b SpinDeterminant) int {
	return detbits.Xor(a.bits, b.bits).Count() / 2
}

// Determinant is a full Slater determinant: one occupation mask per spin
// channel over a shared orbital range.
type Determinant struct {
	Alpha SpinDeterminant
	Beta  SpinDeterminant
}

// New builds a determinant from its two spin channels.
func New(alpha, beta SpinDeterminant) Determinant {
	return Determinant{Alpha: alpha, Beta: beta}
}

// Ground returns the Aufbau determinant with the lowest nalpha alpha and
// nbeta beta orbitals occupied.
func Ground(norb, nalpha, nbeta int) (Determinant, error) {
	a, err := GroundSpin(norb, nalpha)
	if err != nil {
		return Determinant{}, err
	}
	b, err := GroundSpin(norb, nbeta)
	if err != nil {
		return Determinant{}, err
	}
	return Determinant{Alpha: a, Beta: b}, nil
}

// Norb returns the orbital range width.
func (d Determinant) Norb() int { return d.Alpha.Norb() }

// Equal reports whether both spin channels match.
func (d Determinant) Equal(o Determinant) bool {
	return d.Alpha.Equal(o.Alpha) && d.Beta.Equal(o.Beta)
}

// Key returns a map key identifying the determinant.
func (d Determinant) Key() string { return d.Alpha.Key() + d.Beta.Key() }

// Degree returns the per-spin excitation degrees between two determinants.
func Degree(a, b Determinant) (dup, ddn int) {
	return ExcitationDegree(a.Alpha, b.Alpha), ExcitationDegree(a.Beta, b.Beta)
}

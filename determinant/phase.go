package determinant

import (
	"github.com/kgasperich/arches/internal/detbits"
)

// PhaseSingle returns the sign picked up by moving one electron from hole h
// to particle p in d: -1 raised to the number of occupied orbitals strictly
// between h and p. The count is a single masked popcount.
func PhaseSingle(d SpinDeterminant, h, p int) int {
	lo, hi := h, p
	if lo > hi {
		lo, hi = hi, lo
	}
	if d.bits.CountRange(lo+1, hi)&1 == 1 {
		return -1
	}
	return 1
}

// PhaseDoubleSame returns the sign of a same-spin double excitation
// (h1,h2) -> (p1,p2) applied to d, with h1 < h2 and p1 < p2. It is the
// product of the two single phases evaluated on the unexcited determinant,
// corrected for hole/particle crossings.
func PhaseDoubleSame(d SpinDeterminant, h1, h2, p1, p2 int) int {
	phase := PhaseSingle(d, h1, p1) * PhaseSingle(d, h2, p2)
	if h2 < p1 {
		phase = -phase
	}
	if p2 < h1 {
		phase = -phase
	}
	return phase
}

// Excitation describes how one spin determinant maps onto another connected
// one: the excitation degree, the overall sign, and the hole/particle
// orbitals in ascending order. Only Holes[:Degree] and Parts[:Degree] are
// meaningful.
type Excitation struct {
	Degree int
	Phase  int
	Holes  [2]int
	Parts  [2]int
}

// Decompose analyses the excitation carrying from onto to. Both must share
// the same width and electron count. Degrees above two return
// ErrNotConnected.
func Decompose(from, to SpinDeterminant) (Excitation, error) {
	holes := holeParts(from, to)
	parts := holeParts(to, from)
	switch len(holes) {
	case 0:
		return Excitation{Degree: 0, Phase: 1}, nil
	case 1:
		return Excitation{
			Degree: 1,
			Phase:  PhaseSingle(from, holes[0], parts[0]),
			Holes:  [2]int{holes[0], 0},
			Parts:  [2]int{parts[0], 0},
		}, nil
	case 2:
		return Excitation{
			Degree: 2,
			Phase:  PhaseDoubleSame(from, holes[0], holes[1], parts[0], parts[1]),
			Holes:  [2]int{holes[0], holes[1]},
			Parts:  [2]int{parts[0], parts[1]},
		}, nil
	default:
		return Excitation{Degree: len(holes)}, ErrNotConnected
	}
}

// holeParts returns the orbitals occupied in a but not in b, ascending.
func holeParts(a, b SpinDeterminant) []int {
	return detbits.AndNot(a.bits, b.bits).Ones(nil)
}

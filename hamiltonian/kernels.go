package hamiltonian

import (
	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/determinant"
	"github.com/kgasperich/arches/integrals"
)

// KernelPair is the pair of matrix element kernels bound to one integral
// category. Diagonal is nil for categories that cannot reach diagonal
// elements, OffDiagonal for categories confined to them. Each kernel
// returns the contribution of one chunk's integrals to one matrix element;
// summing a kernel over all chunks of a table reproduces the full
// Slater-Condon term.
type KernelPair[T constraints.Float] struct {
	Diagonal    func(ch *integrals.Chunk[T], d determinant.Determinant) T
	OffDiagonal func(ch *integrals.Chunk[T], di, dj determinant.Determinant) T
}

// KernelsFor returns the kernel pair of an integral category.
func KernelsFor[T constraints.Float](cat integrals.Category) KernelPair[T] {
	switch cat {
	case integrals.CategoryA:
		return KernelPair[T]{Diagonal: diagA[T]}
	case integrals.CategoryB:
		return KernelPair[T]{Diagonal: diagB[T]}
	case integrals.CategoryC:
		return KernelPair[T]{OffDiagonal: offDiagC[T]}
	case integrals.CategoryD:
		return KernelPair[T]{OffDiagonal: offDiagD[T]}
	case integrals.CategoryE:
		return KernelPair[T]{OffDiagonal: offDiagE[T]}
	case integrals.CategoryF:
		return KernelPair[T]{Diagonal: diagF[T], OffDiagonal: offDiagF[T]}
	case integrals.CategoryG:
		return KernelPair[T]{OffDiagonal: offDiagG[T]}
	case integrals.CategoryOneElectron:
		return KernelPair[T]{Diagonal: diagOne[T], OffDiagonal: offDiagOne[T]}
	default:
		return KernelPair[T]{}
	}
}

// diagA sums <ii|ii> over orbitals doubly occupied in d.
func diagA[T constraints.Float](ch *integrals.Chunk[T], d determinant.Determinant) T {
	var s T
	for _, i := range d.Alpha.Orbitals() {
		if d.Beta.Occupied(i) {
			s += ch.Two(i, i, i, i)
		}
	}
	return s
}

// diagB sums the direct terms <ij|ij> over same-spin pairs and distinct
// opposite-spin pairs of d.
func diagB[T constraints.Float](ch *integrals.Chunk[T], d determinant.Determinant) T {
	alpha := d.Alpha.Orbitals()
	beta := d.Beta.Orbitals()

	var s T
	s += samePairDirect(ch, alpha)
	s += samePairDirect(ch, beta)
	for _, i := range alpha {
		for _, j := range beta {
			if i != j {
				s += ch.Two(i, j, i, j)
			}
		}
	}
	return s
}

func samePairDirect[T constraints.Float](ch *integrals.Chunk[T], occ []int) T {
	var s T
	for a := 0; a < len(occ); a++ {
		for b := a + 1; b < len(occ); b++ {
			s += ch.Two(occ[a], occ[b], occ[a], occ[b])
		}
	}
	return s
}

// diagF subtracts the exchange terms <ij|ji> over same-spin pairs of d.
func diagF[T constraints.Float](ch *integrals.Chunk[T], d determinant.Determinant) T {
	return -samePairExchange(ch, d.Alpha.Orbitals()) - samePairExchange(ch, d.Beta.Orbitals())
}

func samePairExchange[T constraints.Float](ch *integrals.Chunk[T], occ []int) T {
	var s T
	for a := 0; a < len(occ); a++ {
		for b := a + 1; b < len(occ); b++ {
			s += ch.Two(occ[a], occ[b], occ[b], occ[a])
		}
	}
	return s
}

// diagOne sums the core Hamiltonian h(i,i) over occupied orbitals.
func diagOne[T constraints.Float](ch *integrals.Chunk[T], d determinant.Determinant) T {
	var s T
	for _, i := range d.Alpha.Orbitals() {
		s += ch.One(i, i)
	}
	for _, i := range d.Beta.Orbitals() {
		s += ch.One(i, i)
	}
	return s
}

// singleChannels resolves a degree (1,0) or (0,1) pair into the excited
// spin channel and the spectator occupation of the other channel.
func singleChannels(di, dj determinant.Determinant) (from, to, other determinant.SpinDeterminant, ok bool) {
	dup, ddn := determinant.Degree(di, dj)
	switch {
	case dup == 1 && ddn == 0:
		return di.Alpha, dj.Alpha, di.Beta, true
	case dup == 0 && ddn == 1:
		return di.Beta, dj.Beta, di.Alpha, true
	default:
		return from, to, other, false
	}
}

// offDiagC covers single excitations: the direct spectator sums over
// same-spin occupied orbitals and opposite-spin spectators outside the
// hole/particle pair. The same-spin spectator equal to the hole drops out
// because its direct and exchange integrals coincide.
func offDiagC[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	from, to, other, ok := singleChannels(di, dj)
	if !ok {
		return 0
	}
	ex, err := determinant.Decompose(from, to)
	if err != nil {
		return 0
	}
	m, p := ex.Holes[0], ex.Parts[0]

	var s T
	for _, i := range from.Orbitals() {
		if i != m {
			s += ch.Two(m, i, p, i)
		}
	}
	for _, i := range other.Orbitals() {
		if i != m && i != p {
			s += ch.Two(m, i, p, i)
		}
	}
	return T(ex.Phase) * s
}

// offDiagD covers single excitations whose opposite-spin spectator is the
// hole or particle orbital itself.
func offDiagD[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	from, to, other, ok := singleChannels(di, dj)
	if !ok {
		return 0
	}
	ex, err := determinant.Decompose(from, to)
	if err != nil {
		return 0
	}
	m, p := ex.Holes[0], ex.Parts[0]

	var s T
	if other.Occupied(m) {
		s += ch.Two(m, m, p, m)
	}
	if other.Occupied(p) {
		s += ch.Two(m, p, p, p)
	}
	return T(ex.Phase) * s
}

// mixedDouble evaluates an opposite-spin double <hA hB|pA pB> with its
// per-channel phases. Which chunk category holds the integral depends on
// the orbital coincidences, so the zero-default lookup does the filtering.
func mixedDouble[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	exA, err := determinant.Decompose(di.Alpha, dj.Alpha)
	if err != nil {
		return 0
	}
	exB, err := determinant.Decompose(di.Beta, dj.Beta)
	if err != nil {
		return 0
	}
	return T(exA.Phase*exB.Phase) * ch.Two(exA.Holes[0], exB.Holes[0], exA.Parts[0], exB.Parts[0])
}

// offDiagE covers the exchange spectator sum of single excitations and
// opposite-spin doubles with one orbital coincidence.
func offDiagE[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	dup, ddn := determinant.Degree(di, dj)
	if dup == 1 && ddn == 1 {
		return mixedDouble(ch, di, dj)
	}

	from, to, _, ok := singleChannels(di, dj)
	if !ok {
		return 0
	}
	ex, err := determinant.Decompose(from, to)
	if err != nil {
		return 0
	}
	m, p := ex.Holes[0], ex.Parts[0]

	var s T
	for _, i := range from.Orbitals() {
		if i != m {
			s -= ch.Two(m, i, i, p)
		}
	}
	return T(ex.Phase) * s
}

// offDiagF covers opposite-spin doubles of the form <hh|pp>.
func offDiagF[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	if dup, ddn := determinant.Degree(di, dj); dup != 1 || ddn != 1 {
		return 0
	}
	return mixedDouble(ch, di, dj)
}

// offDiagG covers same-spin doubles, direct minus exchange, and
// opposite-spin doubles over four distinct orbitals.
func offDiagG[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	dup, ddn := determinant.Degree(di, dj)
	switch {
	case dup == 2 && ddn == 0:
		return sameDouble(ch, di.Alpha, dj.Alpha)
	case dup == 0 && ddn == 2:
		return sameDouble(ch, di.Beta, dj.Beta)
	case dup == 1 && ddn == 1:
		return mixedDouble(ch, di, dj)
	default:
		return 0
	}
}

func sameDouble[T constraints.Float](ch *integrals.Chunk[T], from, to determinant.SpinDeterminant) T {
	ex, err := determinant.Decompose(from, to)
	if err != nil {
		return 0
	}
	h1, h2 := ex.Holes[0], ex.Holes[1]
	p1, p2 := ex.Parts[0], ex.Parts[1]
	return T(ex.Phase) * (ch.Two(h1, h2, p1, p2) - ch.Two(h1, h2, p2, p1))
}

// offDiagOne covers the core Hamiltonian term h(m,p) of single excitations.
func offDiagOne[T constraints.Float](ch *integrals.Chunk[T], di, dj determinant.Determinant) T {
	from, to, _, ok := singleChannels(di, dj)
	if !ok {
		return 0
	}
	ex, err := determinant.Decompose(from, to)
	if err != nil {
		return 0
	}
	return T(ex.Phase) * ch.One(ex.Holes[0], ex.Parts[0])
}

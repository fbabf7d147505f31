package integrals

import (
	"math"
)

// CompoundIndex2 maps an unordered orbital pair to its triangular index
// min + max*(max+1)/2.
func CompoundIndex2(i, j int) uint64 {
	p, q := uint64(i), uint64(j)
	if p > q {
		p, q = q, p
	}
	return q*(q+1)/2 + p
}

// ReverseIndex2 inverts CompoundIndex2, returning the pair with p <= q.
func ReverseIndex2(c uint64) (p, q uint64) {
	q = uint64((math.Sqrt(float64(8*c+1)) - 1) / 2)
	for (q+1)*(q+2)/2 <= c {
		q++
	}
	for q*(q+1)/2 > c {
		q--
	}
	p = c - q*(q+1)/2
	return p, q
}

// CompoundIndex4 maps a Dirac-ordered integral index <ij|kl> to a single
// compound key invariant under the real-orbital 8-fold symmetry group:
// i<->k, j<->l, and the swap of the (i,k) and (j,l) pairs.
func CompoundIndex4(i, j, k, l int) uint64 {
	return CompoundIndex2(int(CompoundIndex2(i, k)), int(CompoundIndex2(j, l)))
}

// ReverseIndex4 inverts CompoundIndex4, yielding the canonical tuple.
func ReverseIndex4(c uint64) (i, j, k, l int) {
	ik, jl := ReverseIndex2(c)
	a, b := ReverseIndex2(ik)
	x, y := ReverseIndex2(jl)
	return int(a), int(x), int(b), int(y)
}

// CanonicalIndex4 reduces a Dirac index tuple to the unique representative
// of its symmetry class: i <= k, j <= l, and the (i,k) pair carrying the
// smaller compound pair index.
func CanonicalIndex4(i, j, k, l int) (int, int, int, int) {
	if i > k {
		i, k = k, i
	}
	if j > l {
		j, l = l, j
	}
	if CompoundIndex2(i, k) > CompoundIndex2(j, l) {
		i, j = j, i
		k, l = l, k
	}
	return i, j, k, l
}

// Category tags the structural class of an integral, which determines the
// Slater-Condon terms it can enter.
type Category uint8

const (
	// CategoryA covers <ii|ii>: diagonal elements only.
	CategoryA Category = iota
	// CategoryB covers <ij|ij> with i != j: diagonal direct terms only.
	CategoryB
	// CategoryC covers <ij|kj> patterns with three distinct orbitals and a
	// spectator outside the hole/particle pair: single-excitation direct
	// terms.
	CategoryC
	// CategoryD covers tuples with exactly three equal indices: single
	// excitations whose opposite-spin spectator is the hole or particle.
	CategoryD
	// CategoryE covers one-coincidence patterns with three distinct
	// orbitals: single-excitation exchange terms and opposite-spin doubles
	// sharing one orbital.
	CategoryE
	// CategoryF covers <ii|kk> with i != k, the canonical form of the
	// exchange pattern <ik|ki>: diagonal exchange terms and opposite-spin
	// doubles <hh|pp>.
	CategoryF
	// CategoryG covers all-distinct tuples: double excitations only.
	CategoryG
	// CategoryOneElectron tags chunks of core Hamiltonian integrals h(i,j).
	CategoryOneElectron
)

var categoryNames = [...]string{"A", "B", "C", "D", "E", "F", "G", "OE"}

// String implements fmt.Stringer.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "?"
}

// TwoElectronCategories lists the categories produced by Categorize, in
// chunk emission order.
var TwoElectronCategories = []Category{
	CategoryA, CategoryB, CategoryC, CategoryD, CategoryE, CategoryF, CategoryG,
}

// Categorize returns the category of a Dirac index tuple. The tuple is
// canonicalized first, so all eight symmetry-equivalent tuples agree.
func Categorize(i, j, k, l int) Category {
	i, j, k, l = CanonicalIndex4(i, j, k, l)
	switch {
	case i == j && j == k && k == l:
		return CategoryA
	case threeEqual(i, j, k, l):
		return CategoryD
	case i == k && j == l:
		return CategoryB
	case i == j && k == l:
		return CategoryF
	case i == k || j == l:
		return CategoryC
	case i == j || k == l || j == k:
		return CategoryE
	default:
		return CategoryG
	}
}

// threeEqual reports whether exactly three of the four indices coincide.
func threeEqual(i, j, k, l int) bool {
	counts := map[int]int{}
	for _, v := range []int{i, j, k, l} {
		counts[v]++
	}
	for _, n := range counts {
		if n == 3 {
			return true
		}
	}
	return false
}

// Package integrals stores electron repulsion and core Hamiltonian integrals
// under 8-fold permutational symmetry and splits them into category-tagged
// chunks for Hamiltonian assembly.
//
// Two-electron integrals use Dirac (physicist) index order <ij|kl>; FCIDUMP
// files, which store Mulliken (chemist) order, are swapped on load. Each
// stored integral is reduced to a canonical index 4-tuple and keyed by a
// compound triangular index, so all eight symmetry-equivalent lookups hit
// the same entry and absent entries read as zero.
//
// The canonical tuples partition into seven structural categories A through
// G. The category of an integral fixes which Slater-Condon terms it can
// contribute to, which is what lets assembly pick one specialized kernel
// pair per chunk up front.
package integrals

package integrals

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// RangeError is returned when an orbital index lies outside [0, Norb).
type RangeError struct {
	Index int
	Norb  int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("integrals: orbital index %d outside range [0, %d)", e.Index, e.Norb)
}

// Table holds the integrals of one system at precision T: the core energy
// E0, the one-electron integrals h(i,j), and the two-electron integrals
// <ij|kl> stored once per symmetry class. Lookups for absent entries return
// zero; in systems with point-group symmetry most classes are absent and
// the zero default carries the sparsity.
type Table[T constraints.Float] struct {
	norb  int
	nelec int
	e0    T
	oneE  map[uint64]T
	twoE  map[uint64]T
}

// NewTable creates an empty table over norb orbitals.
func NewTable[T constraints.Float](norb int) *Table[T] {
	return &Table[T]{
		norb: norb,
		oneE: make(map[uint64]T),
		twoE: make(map[uint64]T),
	}
}

// Norb returns the orbital count.
func (t *Table[T]) Norb() int { return t.norb }

// Nelec returns the electron count declared by the source file.
func (t *Table[T]) Nelec() int { return t.nelec }

// SetNelec records the electron count.
func (t *Table[T]) SetNelec(n int) { t.nelec = n }

// E0 returns the core (nuclear repulsion plus frozen core) energy.
func (t *Table[T]) E0() T { return t.e0 }

// SetE0 records the core energy.
func (t *Table[T]) SetE0(v T) { t.e0 = v }

func (t *Table[T]) check(idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= t.norb {
			return &RangeError{Index: i, Norb: t.norb}
		}
	}
	return nil
}

// SetOneElectron stores h(i,j), folding (i,j) and (j,i) onto one entry.
func (t *Table[T]) SetOneElectron(i, j int, v T) error {
	if err := t.check(i, j); err != nil {
		return err
	}
	t.oneE[CompoundIndex2(i, j)] = v
	return nil
}

// OneElectron returns h(i,j), zero if absent.
func (t *Table[T]) OneElectron(i, j int) T {
	return t.oneE[CompoundIndex2(i, j)]
}

// SetTwoElectron stores <ij|kl> under its canonical compound key.
func (t *Table[T]) SetTwoElectron(i, j, k, l int, v T) error {
	if err := t.check(i, j, k, l); err != nil {
		return err
	}
	t.twoE[CompoundIndex4(i, j, k, l)] = v
	return nil
}

// TwoElectron returns <ij|kl>, zero if absent. Any of the eight
// symmetry-equivalent index orders yields the same value.
func (t *Table[T]) TwoElectron(i, j, k, l int) T {
	return t.twoE[CompoundIndex4(i, j, k, l)]
}

// NumOneElectron returns the number of stored one-electron entries.
func (t *Table[T]) NumOneElectron() int { return len(t.oneE) }

// NumTwoElectron returns the number of stored two-electron symmetry classes.
func (t *Table[T]) NumTwoElectron() int { return len(t.twoE) }

// Package selection drives the iterative growth of a CI determinant basis.
//
// One step scores the external space of the current wavefunction with the
// PT2 estimate, adopts the determinants with the most negative
// contributions, and rediagonalizes the enlarged basis for the new ground
// state. The step alternates between exactly two phases, scoring and
// diagonalizing; looping steps until an external stopping rule fires is
// what Run does.
package selection

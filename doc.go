// Package arches is a selected configuration interaction engine. It reads
// molecular integrals from FCIDUMP files, assembles sparse Hamiltonians
// over bit-encoded Slater determinant bases, and grows a CI wavefunction by
// adopting the determinants with the largest perturbative energy
// contributions.
//
// The top-level package ties the pieces together: LoadSystem turns an
// FCIDUMP file into category-sorted integral chunks, and Run drives
// selection on them. The underlying machinery lives in the subpackages
// determinant, integrals, hamiltonian, eigen, and selection, which are
// usable on their own.
package arches

// Package hamiltonian assembles selected-CI Hamiltonians from integral
// chunks and determinant bases, and scores external determinants with the
// Epstein-Nesbet second-order perturbation estimate.
//
// Matrix elements follow the Slater-Condon rules. Every integral chunk
// carries a category that fixes which rule terms its entries can enter, so
// assembly binds one specialized kernel pair (diagonal, off-diagonal) per
// chunk up front and the full Hamiltonian is the sum of the per-chunk
// contributions in any order. Sparse assembly separates a symbolic
// structure pass, which fixes the upper-triangle sparsity from excitation
// degrees alone, from an additive numeric pass over chunks.
package hamiltonian

// Package dense provides the small column-major matrix container used by
// the block orthogonalization and Davidson solvers.
//
// Matrices are generic over float precision. Storage is column-major so a
// column is a contiguous slice and appending trial vectors to a growing
// subspace basis is an append, not a reshape. Factorizations (QR, symmetric
// eigendecomposition) are delegated to gonum at float64 precision and
// converted back.
package dense

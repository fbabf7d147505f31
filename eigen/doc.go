// Package eigen finds the lowest eigenpairs of large symmetric operators
// with a block Davidson method.
//
// The growing trial subspace is kept orthonormal with BMGSH, a blocked
// Gram-Schmidt variant (Barlow 2019) that maintains a triangular correction
// factor T alongside Q and R so previously orthonormalized columns never
// need to be revisited. Davidson comes in a serial variant and a
// distributed variant that splits the operator across one worker goroutine
// per trial vector; both produce identical iterates for the same inputs.
package eigen

// Package determinant provides Slater determinants over bit-encoded spin
// occupations, together with excitation analysis and connected-space
// generation.
//
// A Determinant is a pair of SpinDeterminant occupation masks (alpha, beta)
// over a shared orbital range [0, Norb). The excitation degree between two
// determinants of one spin is half the popcount of the XOR of their masks.
// Phases follow the standard second-quantization sign convention and are
// computed looplessly from mask popcounts, never by walking orbital lists.
package determinant

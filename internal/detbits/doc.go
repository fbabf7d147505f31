// Package detbits implements the fixed-width bit vectors backing spin
// occupation masks.
//
// A vector is a plain []uint64 with an orbital count; all operations are
// word-wise so that occupancy queries, symmetric differences and the
// popcount-between-bounds trick used by the phase kernels stay loopless.
package detbits

// Package floats holds small precision-generic float helpers.
package floats

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Eps returns the machine epsilon of precision T.
func Eps[T constraints.Float]() float64 {
	var z T
	if unsafe.Sizeof(z) == 4 {
		return 0x1p-23
	}
	return 0x1p-52
}

// Abs returns the absolute value of v.
func Abs[T constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

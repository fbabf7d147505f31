package determinant

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Decompose when the excitation degree
// between the two determinants is above two.
var ErrNotConnected = errors.New("determinant: excitation degree above two")

// ErrElectronCount is returned when a requested electron count does not fit
// into the orbital range.
var ErrElectronCount = errors.New("determinant: electron count exceeds orbital count")

// OrbitalRangeError is returned when an orbital index lies outside [0, Norb).
type OrbitalRangeError struct {
	Orbital int
	Norb    int
}

// Error implements the error interface.
func (e *OrbitalRangeError) Error() string {
	return fmt.Sprintf("determinant: orbital %d outside range [0, %d)", e.Orbital, e.Norb)
}

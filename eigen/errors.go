package eigen

import (
	"errors"
	"fmt"
)

// ErrNoSubDiagonal is returned when the tridiagonal preconditioner is
// requested but the operator does not expose a subdiagonal.
var ErrNoSubDiagonal = errors.New("eigen: operator provides no subdiagonal for the tridiagonal preconditioner")

// ErrStates is returned when the requested number of eigenstates does not
// lie in [1, block size].
var ErrStates = errors.New("eigen: states must lie in [1, block size]")

// ErrIterations is returned when the iteration cap is not positive.
var ErrIterations = errors.New("eigen: max iterations must be positive")

// BlockSizeError reports a block size that does not tile the column count.
type BlockSizeError struct {
	Block, Cols int
}

// Error implements the error interface.
func (e *BlockSizeError) Error() string {
	return fmt.Sprintf("eigen: block size %d does not divide %d columns", e.Block, e.Cols)
}

// DimensionError reports an operator or guess of unexpected dimension.
type DimensionError struct {
	Want, Got int
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("eigen: dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// WorkerCountError reports a distributed run whose worker count does not
// equal the block size.
type WorkerCountError struct {
	Workers, Block int
}

// Error implements the error interface.
func (e *WorkerCountError) Error() string {
	return fmt.Sprintf("eigen: %d workers for block size %d; one worker per trial vector required", e.Workers, e.Block)
}

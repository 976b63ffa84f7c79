package lattice

import "errors"

// Domain errors for lattice operations.
var (
	// ErrInvalidSize indicates a non-positive grid dimension.
	ErrInvalidSize = errors.New("lattice: grid dimensions must be positive")

	// ErrInvalidID indicates a malformed "r,g,b" id string.
	ErrInvalidID = errors.New("lattice: invalid cell id")
)

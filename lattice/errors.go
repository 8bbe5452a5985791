package lattice

import "errors"

var (
	// ErrNonFinite indicates a basis entry is NaN or ±Inf.
	ErrNonFinite = errors.New("lattice: basis contains NaN or Inf")

	// ErrDegenerate indicates a zero or negative basis determinant.
	// Matching requires volume > 0 (right-handed basis); callers holding a
	// left-handed cell must fix the winding before constructing a Lattice.
	ErrDegenerate = errors.New("lattice: degenerate or left-handed basis (volume must be > 0)")
)

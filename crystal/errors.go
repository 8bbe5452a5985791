package crystal

import "errors"

var (
	// ErrNilLattice indicates a Structure was constructed without a lattice.
	ErrNilLattice = errors.New("crystal: lattice is nil")

	// ErrNoSites indicates an empty site list.
	ErrNoSites = errors.New("crystal: structure must contain at least one site")

	// ErrBadCoordinate indicates a NaN/±Inf fractional coordinate.
	ErrBadCoordinate = errors.New("crystal: non-finite fractional coordinate")

	// ErrBadOccupancy indicates a site occupancy outside (0, 1].
	ErrBadOccupancy = errors.New("crystal: occupancy must be in (0, 1]")

	// ErrEmptyElement indicates a species with an empty element symbol.
	ErrEmptyElement = errors.New("crystal: species element symbol is empty")
)

package matcher

import "errors"

var (
	// ErrNilStructure indicates a nil *crystal.Structure was passed to a
	// matching operation.
	ErrNilStructure = errors.New("matcher: structure is nil")

	// ErrComparatorInvariant indicates the active comparator produced
	// different hashes for comparator-equal compositions — a violation of
	// the Comparator contract, surfaced for the offending pair.
	ErrComparatorInvariant = errors.New("matcher: comparator hash inconsistent with equality")

	// ErrSupercell indicates supercell construction did not yield the
	// determinant-implied number of sites (internal invariant violation).
	ErrSupercell = errors.New("matcher: supercell site enumeration incomplete")
)

package compare

import "github.com/xtalgo/xtal/crystal"

// Comparator decides when two species are "the same" and fingerprints
// compositions consistently with that decision. Implementations must be
// stateless: a single Comparator value is shared across worker goroutines.
type Comparator interface {
	// Equal reports whether a and b are the same species under this
	// comparator's equivalence.
	Equal(a, b crystal.Species) bool

	// Hash returns an order-independent fingerprint of c. Comparator-equal
	// compositions hash equal; distinct compositions may collide.
	Hash(c crystal.Composition) uint64
}

// SpeciesComparator matches on element and oxidation state exactly.
type SpeciesComparator struct{}

// Equal reports element + oxidation equality.
func (SpeciesComparator) Equal(a, b crystal.Species) bool { return a == b }

// Hash fingerprints the fractional composition, oxidation-sensitive.
func (SpeciesComparator) Hash(c crystal.Composition) uint64 {
	return fingerprint(c, speciesKey)
}

// ElementComparator matches on element only, ignoring oxidation states.
type ElementComparator struct{}

// Equal reports element equality.
func (ElementComparator) Equal(a, b crystal.Species) bool {
	return a.Element == b.Element
}

// Hash fingerprints the fractional composition after folding all oxidation
// states of each element together.
func (ElementComparator) Hash(c crystal.Composition) uint64 {
	return fingerprint(c, elementKey)
}

// speciesKey is the canonical label under species equality ("Fe3+").
func speciesKey(sp crystal.Species) string { return sp.String() }

// elementKey is the canonical label under element equality ("Fe").
func elementKey(sp crystal.Species) string { return sp.Element }

// Package compare defines the pluggable species-equivalence test used
// throughout structure matching, plus the cheap order-independent
// composition fingerprint used to reject non-matching pairs before any
// geometry is touched.
//
// Two comparators are provided:
//
//	SpeciesComparator — element AND oxidation state must match ("Fe2+" ≠ "Fe3+")
//	ElementComparator — element only; oxidation states are folded together
//
// Contract (relied on by the matcher, which surfaces violations as errors):
// compositions that are equal under a comparator's notion of species
// equality MUST produce equal hashes. Hash collisions between distinct
// compositions are permitted and resolved by full comparison downstream.
//
// Both comparators are stateless and safe for concurrent use.
package compare

// Package matcher decides whether two crystal structures describe the same
// physical arrangement of atoms up to lattice rescaling/supercell relations,
// rigid translation and site permutation, within configurable tolerances.
//
// 🚀 Pipeline (per pair, each stage short-circuits on rejection):
//
//	composition hash precheck → primitive-cell folding (optional)
//	→ lattice/supercell transform search → translation + site assignment
//	→ verdict (plus rms / max displacement when accepted)
//
// ✨ Determinism is a contract, not an accident:
//
//   - Lattice transform candidates are enumerated in a fixed lexicographic
//     order over integer combinations; the first acceptable transform is
//     the same on every run.
//   - Translation candidates anchor one B site (rarest species) onto
//     comparator-equal sites of A in index order; nearest-site ties break
//     to the lowest index; the
//     first candidate within tolerance wins and the search stops.
//   - Anonymous matching enumerates species relabelings from sorted species
//     lists, never from map iteration.
//
// ⚙️ Usage:
//
//	m := matcher.New(
//	  matcher.WithLatticeLengthTol(0.2),
//	  matcher.WithSitePosTol(0.3),
//	  matcher.WithAngleTol(5),
//	  matcher.WithComparator(compare.ElementComparator{}),
//	)
//	ok, err := m.Fit(a, b)
//
// Tolerance failure on well-formed input is a normal false/not-ok outcome,
// never an error; errors are reserved for nil structures and comparator
// invariant violations. A Matcher is immutable after New and safe for
// concurrent use.
package matcher

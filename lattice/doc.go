// Package lattice models the periodic repeat unit of a crystal: three basis
// vectors stored row-major in a 3×3 matrix, with derived lengths, angles,
// metric tensor, volume and reciprocal lattice, plus the periodic-boundary
// engine (fractional wrapping and minimum-image displacement) every distance
// comparison in the matcher is built on.
//
// 🚀 What lives here?
//
//	• Lattice     — validated, right-handed 3×3 basis (volume > 0 invariant)
//	• Vec3        — the shared 3-vector for Cartesian and fractional coords
//	• Reduce      — deterministic LLL basis reduction (δ = 0.75)
//	• WrapFrac    — canonical [0,1) fractional wrapping
//	• ShortestVector — minimum-image displacement for arbitrary triclinic cells
//
// ✨ Guarantees:
//
//   - Every constructed Lattice is finite, non-degenerate and right-handed;
//     degenerate input is rejected with ErrDegenerate before any geometry runs.
//   - All derived quantities are computed on demand from the basis; a Lattice
//     is an immutable value after construction.
//   - Reduction and image scanning use fixed sweep orders, so identical input
//     always yields identical output — downstream matching depends on it.
//
// Complexity: every operation here is O(1) (the basis is a fixed 3×3).
package lattice

// Package crystal defines the immutable value types the matcher operates
// on: Species (element + optional oxidation state), Site (species at a
// fractional position), Structure (a lattice plus an ordered site list) and
// Composition (species → amount, with deterministic formula renderings).
//
// Validation happens once, at construction: NewStructure rejects nil or
// degenerate lattices, empty site lists and non-finite coordinates, and
// wraps every fractional coordinate into the canonical [0,1) cell. A
// Structure that exists is therefore always safe to feed into geometric
// code — no NaN can reach a distance computation.
//
// Structures are treated as immutable after construction; the matcher
// derives transient reduced/supercell copies per comparison and never
// mutates caller-owned values.
package crystal

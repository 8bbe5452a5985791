// Package xtal is a structure-matching toolkit for materials-discovery
// pipelines: it decides whether two crystal structures are the same physical
// arrangement of atoms up to symmetry-preserving transformations, and uses
// that test to collapse large batches of candidate structures.
//
// 🚀 What is xtal?
//
//	A deterministic, tolerance-based matching engine:
//		• Lattice model: basis vectors, metric tensor, LLL reduction, reciprocal lattice
//		• Periodic-boundary engine: wrapping & minimum image for triclinic cells
//		• Comparators: exact species or element-only equivalence, pluggable
//		• Supercell-aware lattice matching with ordered candidate enumeration
//		• Tolerant site assignment with first-success short-circuiting
//		• Batch engine: dedup & cross-set matching, hash pre-filtered, parallel
//
// ✨ Why xtal?
//
//   - Deterministic by construction – fixed enumeration orders everywhere;
//     batch results are independent of worker count and scheduling
//   - Honest errors – malformed structures are rejected at construction;
//     tolerance failure is a normal false, never an error or a NaN
//   - Pure computation – no I/O, no global state; structures are immutable
//
// Everything is organized under five subpackages:
//
//	lattice/ — basis math, reduction, periodic-boundary engine
//	crystal/ — Species, Site, Structure, Composition values
//	compare/ — species comparators + composition fingerprints
//	matcher/ — the pairwise matching pipeline (Fit, FitAnonymous, RMSDist)
//	batch/   — Deduplicate & FindMatches over structure collections
//
// Quick sketch:
//
//	m := matcher.New()
//	ok, _ := m.Fit(a, b)                  // same structure?
//	eng, _ := batch.New(m)
//	reps, _ := eng.Deduplicate(structs)   // one index per unique structure
//
// File parsing (CIF/POSCAR/JSON) is deliberately out of scope: construct
// Structure values from your own I/O layer, or see cmd/xtal for a minimal
// JSON-driven batch CLI.
package xtal

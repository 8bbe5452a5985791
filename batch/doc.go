// Package batch deduplicates and cross-matches collections of structures
// on top of a matcher.Matcher, with hash-based pre-filtering and CPU
// parallelism that never leaks into the results.
//
// Concurrency model — parallel scan, serial reduce:
//
//	Every parallel phase writes only to a private, index-addressed slot of a
//	preallocated slice; workers (errgroup, bounded by WithWorkers) read only
//	immutable structures and allocate their own transient state. Aggregation
//	into the result runs single-threaded after Wait, so Deduplicate and
//	FindMatches return bit-identical output for any worker count — no lock
//	or atomic is needed, or used, during the parallel phase.
//
// Ordering guarantees:
//
//	Deduplicate inserts representatives serially in input order: the first
//	accepted representative with the lower index always wins. FindMatches
//	selects the lowest matching index after its scan completes and never
//	mutates the existing set.
//
// Error policy:
//
//	OnErrorSkip (default) excludes an offending structure (nil entry,
//	comparator invariant violation) and continues; OnErrorFail aborts the
//	batch on the first error. Tolerance failure is never an error.
//
// Batch calls run to completion; callers needing bounded latency chunk
// their input externally.
package batch

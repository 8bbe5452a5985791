package batch

import "runtime"

// OnError selects the batch policy when a per-structure error surfaces.
type OnError int

const (
	// OnErrorSkip excludes the offending structure and continues (default).
	OnErrorSkip OnError = iota

	// OnErrorFail aborts the whole batch on the first error.
	OnErrorFail
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultCacheSize bounds the prepared-structure cache.
	DefaultCacheSize = 4096

	// DefaultOnError is the skip policy.
	DefaultOnError = OnErrorSkip
)

// Internal panic messages (no magic strings).
const (
	panicWorkersInvalid = "batch: WithWorkers: workers must be > 0"
	panicCacheInvalid   = "batch: WithCacheSize: size must be > 0"
)

// Option mutates engine options. Constructors panic only on nonsensical
// values (programmer error).
type Option func(*options)

type options struct {
	workers   int
	cacheSize int
	onError   OnError
}

// WithWorkers bounds the parallel scan phase. Default: runtime.NumCPU().
// Panics on workers ≤ 0.
func WithWorkers(workers int) Option {
	if workers <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = workers }
}

// WithCacheSize bounds the prepared-structure cache. Panics on size ≤ 0.
func WithCacheSize(size int) Option {
	if size <= 0 {
		panic(panicCacheInvalid)
	}

	return func(o *options) { o.cacheSize = size }
}

// WithOnError selects the per-structure error policy.
func WithOnError(policy OnError) Option {
	return func(o *options) { o.onError = policy }
}

func gatherOptions(user ...Option) options {
	o := options{
		workers:   runtime.NumCPU(),
		cacheSize: DefaultCacheSize,
		onError:   DefaultOnError,
	}
	for _, set := range user {
		set(&o) // apply in order; last-writer-wins
	}

	return o
}

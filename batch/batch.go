package batch

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/matcher"
)

// NoMatch marks a new structure with no equivalent in the existing set.
const NoMatch = -1

// ErrNilMatcher indicates an Engine was constructed without a matcher.
var ErrNilMatcher = errors.New("batch: matcher is nil")

// Engine runs batch matching operations over a shared, immutable Matcher.
type Engine struct {
	m   *matcher.Matcher
	opt options

	// prepared memoizes the per-structure composition hash across batch
	// calls. It is consulted and filled only from single-threaded sections,
	// keeping the parallel phase free of shared mutable state.
	prepared *lru.Cache[*crystal.Structure, preparedEntry]
}

// preparedEntry is the cached pre-scan result for one structure.
type preparedEntry struct {
	hash uint64
	err  error
}

// New builds an Engine over m.
func New(m *matcher.Matcher, opts ...Option) (*Engine, error) {
	if m == nil {
		return nil, ErrNilMatcher
	}
	o := gatherOptions(opts...)
	cache, err := lru.New[*crystal.Structure, preparedEntry](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("batch: prepared cache: %w", err)
	}

	return &Engine{m: m, opt: o, prepared: cache}, nil
}

// Deduplicate returns the indices of representative structures, one per
// equivalence class, in order of first occurrence. The returned indices are
// strictly increasing; every excluded structure fits some earlier
// representative. Under OnErrorSkip, structures that error (nil entries,
// comparator invariant violations) are excluded without representing or
// joining any class.
func (e *Engine) Deduplicate(structs []*crystal.Structure) ([]int, error) {
	prep, err := e.prepareAll(structs)
	if err != nil {
		return nil, err
	}

	reps := make([]int, 0)
	for i, s := range structs {
		if prep[i].err != nil {
			continue // Skip policy: drop the offending structure
		}

		// Parallel scan against the accepted representatives; each task
		// writes its private slot, nothing else.
		flags := make([]bool, len(reps))
		errs := make([]error, len(reps))
		var g errgroup.Group
		g.SetLimit(e.opt.workers)
		for k, rep := range reps {
			if prep[rep].hash != prep[i].hash {
				continue // cheap pre-rejection, no geometry
			}
			k, rep := k, rep
			g.Go(func() error {
				flags[k], errs[k] = e.m.Fit(structs[rep], s)

				return nil
			})
		}
		_ = g.Wait() // task errors travel via errs, never through the group

		// Serial reduce: lowest representative index wins.
		matched, skip := false, false
		for k := range reps {
			if errs[k] != nil {
				if e.opt.onError == OnErrorFail {
					return nil, fmt.Errorf("batch: deduplicate structure %d: %w", i, errs[k])
				}
				skip = true
				break
			}
			if flags[k] {
				matched = true
				break
			}
		}
		if !matched && !skip {
			reps = append(reps, i)
		}
	}

	return reps, nil
}

// FindMatches returns, for each structure in newS, the lowest index in
// existing it matches, or NoMatch. The existing set is never mutated, so
// results for different new structures are independent.
func (e *Engine) FindMatches(newS, existing []*crystal.Structure) ([]int, error) {
	prepNew, err := e.prepareAll(newS)
	if err != nil {
		return nil, err
	}
	prepEx, err := e.prepareAll(existing)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(newS))
	for i := range out {
		out[i] = NoMatch
	}

	for i, s := range newS {
		if prepNew[i].err != nil {
			continue // Skip policy: reported as NoMatch
		}

		flags := make([]bool, len(existing))
		errs := make([]error, len(existing))
		var g errgroup.Group
		g.SetLimit(e.opt.workers)
		for j := range existing {
			if prepEx[j].err != nil || prepEx[j].hash != prepNew[i].hash {
				continue
			}
			j := j
			g.Go(func() error {
				flags[j], errs[j] = e.m.Fit(existing[j], s)

				return nil
			})
		}
		_ = g.Wait()

		for j := range existing {
			if errs[j] != nil {
				if e.opt.onError == OnErrorFail {
					return nil, fmt.Errorf("batch: match structure %d against %d: %w", i, j, errs[j])
				}
				continue
			}
			if flags[j] {
				out[i] = j
				break
			}
		}
	}

	return out, nil
}

// prepareAll runs the serial pre-scan (hash + validity) over list, applying
// the Fail policy immediately; Skip leaves per-entry errors for the caller.
func (e *Engine) prepareAll(list []*crystal.Structure) ([]preparedEntry, error) {
	out := make([]preparedEntry, len(list))
	for i, s := range list {
		out[i] = e.prepare(s)
		if out[i].err != nil && e.opt.onError == OnErrorFail {
			return nil, fmt.Errorf("batch: structure %d: %w", i, out[i].err)
		}
	}

	return out, nil
}

// prepare computes (or recalls) the composition hash for s.
func (e *Engine) prepare(s *crystal.Structure) preparedEntry {
	if s == nil {
		return preparedEntry{err: matcher.ErrNilStructure}
	}
	if ent, ok := e.prepared.Get(s); ok {
		return ent
	}
	h, err := e.m.CompositionHash(s)
	ent := preparedEntry{hash: h, err: err}
	e.prepared.Add(s, ent)

	return ent
}

package batch_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtalgo/xtal/batch"
	"github.com/xtalgo/xtal/compare"
	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/lattice"
	"github.com/xtalgo/xtal/matcher"
)

// mustStructure builds a structure or fails the test.
func mustStructure(t *testing.T, lat *lattice.Lattice, sites []crystal.Site) *crystal.Structure {
	t.Helper()
	s, err := crystal.NewStructure(lat, sites)
	require.NoError(t, err)

	return s
}

// diatomic builds a 2-site cubic cell: cation at a shifted origin, anion at
// the shifted body center. Varying shift produces equivalent duplicates.
func diatomic(t *testing.T, cation, anion string, a float64, shift lattice.Vec3) *crystal.Structure {
	t.Helper()

	return mustStructure(t, lattice.Cubic(a), []crystal.Site{
		{Species: crystal.Species{Element: cation, Oxidation: 1}, Frac: lattice.Vec3{0, 0, 0}.Add(shift)},
		{Species: crystal.Species{Element: anion, Oxidation: -1}, Frac: lattice.Vec3{0.5, 0.5, 0.5}.Add(shift)},
	})
}

func newEngine(t *testing.T, opts ...batch.Option) *batch.Engine {
	t.Helper()
	e, err := batch.New(matcher.New(), opts...)
	require.NoError(t, err)

	return e
}

// TestNew_NilMatcher rejects a missing matcher up front.
func TestNew_NilMatcher(t *testing.T) {
	_, err := batch.New(nil)
	assert.ErrorIs(t, err, batch.ErrNilMatcher)
}

// TestDeduplicate_TwoClasses: four structures, two equivalence classes,
// lowest index represents each class.
func TestDeduplicate_TwoClasses(t *testing.T) {
	e := newEngine(t)
	structs := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),               // class A rep
		diatomic(t, "K", "Br", 4, lattice.Vec3{}),                // class B rep
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.3, 0.1, 0.7}),  // duplicate of 0
		diatomic(t, "K", "Br", 4, lattice.Vec3{0.25, 0.5, 0.75}), // duplicate of 1
	}

	reps, err := e.Deduplicate(structs)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, reps)
}

// TestDeduplicate_StrictlyIncreasing: representatives come back in first
// occurrence order, whatever the input arrangement.
func TestDeduplicate_StrictlyIncreasing(t *testing.T) {
	e := newEngine(t)
	structs := []*crystal.Structure{
		diatomic(t, "K", "Br", 4, lattice.Vec3{0.1, 0.2, 0.3}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		diatomic(t, "K", "Br", 4, lattice.Vec3{}),
		diatomic(t, "Cs", "I", 5, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.5, 0.5, 0.5}),
	}

	reps, err := e.Deduplicate(structs)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, reps)
	for k := 1; k < len(reps); k++ {
		assert.Greater(t, reps[k], reps[k-1])
	}
}

// TestDeduplicate_TwoClassesAnyPermutation: exactly two equivalence classes
// collapse to exactly two representatives however the input is arranged.
func TestDeduplicate_TwoClassesAnyPermutation(t *testing.T) {
	e := newEngine(t)
	pool := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		diatomic(t, "K", "Br", 4, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.3, 0.1, 0.7}),
		diatomic(t, "K", "Br", 4, lattice.Vec3{0.25, 0.5, 0.75}),
	}
	perms := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}

	for _, p := range perms {
		structs := make([]*crystal.Structure, len(p))
		for i, idx := range p {
			structs[i] = pool[idx]
		}
		reps, err := e.Deduplicate(structs)
		require.NoError(t, err)
		assert.Len(t, reps, 2, "permutation %v", p)
	}
}

// TestDeduplicate_WorkerCountIrrelevant: the parallel scan must not leak
// scheduling order into results.
func TestDeduplicate_WorkerCountIrrelevant(t *testing.T) {
	structs := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.2, 0.4, 0.6}),
		diatomic(t, "K", "Br", 4, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.9, 0.1, 0.5}),
		diatomic(t, "K", "Br", 4, lattice.Vec3{0.3, 0.3, 0.3}),
	}

	serial, err := newEngine(t, batch.WithWorkers(1)).Deduplicate(structs)
	require.NoError(t, err)
	parallel, err := newEngine(t, batch.WithWorkers(4)).Deduplicate(structs)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, []int{0, 2}, serial)
}

// TestDeduplicate_SkipsNilEntries: under the default Skip policy a nil entry
// neither represents nor joins a class.
func TestDeduplicate_SkipsNilEntries(t *testing.T) {
	e := newEngine(t)
	structs := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		nil,
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.1, 0.1, 0.1}),
	}

	reps, err := e.Deduplicate(structs)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, reps)
}

// TestDeduplicate_FailPolicy aborts on the first bad entry.
func TestDeduplicate_FailPolicy(t *testing.T) {
	e := newEngine(t, batch.WithOnError(batch.OnErrorFail))
	structs := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		nil,
	}

	_, err := e.Deduplicate(structs)
	assert.ErrorIs(t, err, matcher.ErrNilStructure)
}

// unstableComparator violates the Comparator contract mid-batch: the first
// two Hash calls (the engine's pre-scan) agree, every later call returns a
// fresh value, so equal compositions fingerprint differently once the
// matcher re-hashes them inside Fit. Equal itself stays consistent.
type unstableComparator struct{ calls *atomic.Int64 }

func (unstableComparator) Equal(a, b crystal.Species) bool { return a == b }

func (u unstableComparator) Hash(c crystal.Composition) uint64 {
	if n := u.calls.Add(1); n > 2 {
		return compare.SpeciesComparator{}.Hash(c) + uint64(n)
	}

	return compare.SpeciesComparator{}.Hash(c)
}

func unstableEngine(t *testing.T, opts ...batch.Option) *batch.Engine {
	t.Helper()
	m := matcher.New(matcher.WithComparator(unstableComparator{calls: new(atomic.Int64)}))
	e, err := batch.New(m, opts...)
	require.NoError(t, err)

	return e
}

// TestDeduplicate_ScanErrorSkip: a comparator invariant violation surfacing
// from Fit during the parallel scan drops the offending structure under the
// default policy — it neither joins nor represents a class.
func TestDeduplicate_ScanErrorSkip(t *testing.T) {
	structs := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
	}

	reps, err := unstableEngine(t).Deduplicate(structs)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, reps)
}

// TestDeduplicate_ScanErrorFail: the same violation aborts the batch under
// OnErrorFail, preserving the underlying error for errors.Is.
func TestDeduplicate_ScanErrorFail(t *testing.T) {
	structs := []*crystal.Structure{
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{}),
	}

	_, err := unstableEngine(t, batch.WithOnError(batch.OnErrorFail)).Deduplicate(structs)
	assert.ErrorIs(t, err, matcher.ErrComparatorInvariant)
}

// TestFindMatches_Basics: identical structure finds itself, a stranger
// reports NoMatch, and the lowest matching index wins.
func TestFindMatches_Basics(t *testing.T) {
	e := newEngine(t)
	nacl := diatomic(t, "Na", "Cl", 4, lattice.Vec3{})
	existing := []*crystal.Structure{
		diatomic(t, "K", "Br", 4, lattice.Vec3{}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.5, 0, 0}),
		diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.1, 0.2, 0.3}),
	}
	newS := []*crystal.Structure{
		nacl,
		diatomic(t, "Cs", "I", 5, lattice.Vec3{}),
	}

	got, err := e.FindMatches(newS, existing)
	require.NoError(t, err)
	assert.Equal(t, []int{1, batch.NoMatch}, got, "lowest matching index, NoMatch for the stranger")
}

// TestFindMatches_SelfMatch: the degenerate single-element case.
func TestFindMatches_SelfMatch(t *testing.T) {
	e := newEngine(t)
	s := diatomic(t, "Na", "Cl", 4, lattice.Vec3{})

	got, err := e.FindMatches([]*crystal.Structure{s}, []*crystal.Structure{s})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)
}

// TestFindMatches_SkipsBadExisting: nil entries in the existing set are
// passed over, not matched against.
func TestFindMatches_SkipsBadExisting(t *testing.T) {
	e := newEngine(t)
	nacl := diatomic(t, "Na", "Cl", 4, lattice.Vec3{})
	existing := []*crystal.Structure{nil, diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.2, 0.2, 0.2})}

	got, err := e.FindMatches([]*crystal.Structure{nacl}, existing)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

// TestFindMatches_CacheReuse: a second pass over the same pointers must give
// identical answers (memoized hashes included).
func TestFindMatches_CacheReuse(t *testing.T) {
	e := newEngine(t, batch.WithCacheSize(2))
	s := diatomic(t, "Na", "Cl", 4, lattice.Vec3{})
	existing := []*crystal.Structure{diatomic(t, "Na", "Cl", 4, lattice.Vec3{0.5, 0.5, 0.5})}

	first, err := e.FindMatches([]*crystal.Structure{s}, existing)
	require.NoError(t, err)
	second, err := e.FindMatches([]*crystal.Structure{s}, existing)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestOptions_PanicOnNonsense: option constructors reject programmer error
// loudly.
func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { batch.WithWorkers(0) })
	assert.Panics(t, func() { batch.WithCacheSize(-1) })
}

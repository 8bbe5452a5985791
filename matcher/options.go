package matcher

import (
	"math"

	"github.com/xtalgo/xtal/compare"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultLatticeLengthTol is the relative tolerance on basis vector
	// lengths during lattice matching.
	DefaultLatticeLengthTol = 0.2

	// DefaultSitePosTol is the site displacement tolerance, expressed in
	// units of the tolerance scale (see WithToleranceScale).
	DefaultSitePosTol = 0.3

	// DefaultAngleTol is the absolute tolerance on cell angles, degrees.
	DefaultAngleTol = 5.0

	// DefaultPrimitiveCell folds inputs to primitive cells before matching.
	DefaultPrimitiveCell = true

	// DefaultScale normalizes volumes and the site tolerance by mean atomic
	// volume, making tolerances transferable across materials.
	DefaultScale = true
)

// Internal panic messages (no magic strings).
const (
	panicLengthTolInvalid = "matcher: WithLatticeLengthTol: tol must be finite, > 0"
	panicSiteTolInvalid   = "matcher: WithSitePosTol: tol must be finite, > 0"
	panicAngleTolInvalid  = "matcher: WithAngleTol: tol must be finite, > 0"
	panicComparatorNil    = "matcher: WithComparator: comparator must be non-nil"
	panicToleranceFnNil   = "matcher: WithToleranceScale: fn must be non-nil"
)

// ToleranceScale converts the configured site tolerance into a Cartesian
// length for a given cell volume and site count. The same scale normalizes
// the reported rms/max displacements, so tolerances and metrics share units.
type ToleranceScale func(vol float64, nsites int) float64

// MeanAtomicVolumeScale is the default normalization under WithScale(true):
// the cube root of the mean atomic volume, ≈ a typical interatomic length.
func MeanAtomicVolumeScale(vol float64, nsites int) float64 {
	return math.Cbrt(vol / float64(nsites))
}

// UnitScale leaves the site tolerance as an absolute Cartesian length
// (the WithScale(false) behavior).
func UnitScale(float64, int) float64 { return 1 }

// Option mutates matcher options. Constructors panic only on nonsensical
// values (programmer error); data-dependent failures are runtime errors.
type Option func(*options)

// options is the resolved configuration; unexported to prevent mutation
// after New.
type options struct {
	ltol      float64
	stol      float64
	angleTol  float64
	primitive bool
	scale     bool
	cmp       compare.Comparator
	tolScale  ToleranceScale // nil until finalizeOptions derives it
}

// WithLatticeLengthTol sets the relative tolerance on basis vector lengths.
// Panics on non-finite or non-positive tol.
func WithLatticeLengthTol(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicLengthTolInvalid)
	}

	return func(o *options) { o.ltol = tol }
}

// WithSitePosTol sets the site displacement tolerance, in units of the
// tolerance scale. Panics on non-finite or non-positive tol.
func WithSitePosTol(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicSiteTolInvalid)
	}

	return func(o *options) { o.stol = tol }
}

// WithAngleTol sets the cell angle tolerance in degrees.
// Panics on non-finite or non-positive tol.
func WithAngleTol(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicAngleTolInvalid)
	}

	return func(o *options) { o.angleTol = tol }
}

// WithPrimitiveCell controls folding inputs to primitive cells before
// comparison. Disabling it (together with WithScale(false)) restricts
// lattice matching to equal site counts — no supercell search.
func WithPrimitiveCell(enabled bool) Option {
	return func(o *options) { o.primitive = enabled }
}

// WithScale controls volume normalization: when enabled, b is rescaled to
// a's volume per atom before lattice matching and the site tolerance is
// normalized by MeanAtomicVolumeScale (unless overridden).
func WithScale(enabled bool) Option {
	return func(o *options) { o.scale = enabled }
}

// WithComparator selects the species-equivalence test. Panics on nil.
func WithComparator(cmp compare.Comparator) Option {
	if cmp == nil {
		panic(panicComparatorNil)
	}

	return func(o *options) { o.cmp = cmp }
}

// WithToleranceScale overrides the normalization applied to the site
// tolerance and the reported displacements. The default is
// MeanAtomicVolumeScale under WithScale(true), UnitScale otherwise.
// Panics on nil fn.
func WithToleranceScale(fn ToleranceScale) Option {
	if fn == nil {
		panic(panicToleranceFnNil)
	}

	return func(o *options) { o.tolScale = fn }
}

// gatherOptions resolves setters against the documented defaults and
// finalizes derived state in one place.
func gatherOptions(user ...Option) options {
	o := options{
		ltol:      DefaultLatticeLengthTol,
		stol:      DefaultSitePosTol,
		angleTol:  DefaultAngleTol,
		primitive: DefaultPrimitiveCell,
		scale:     DefaultScale,
		cmp:       compare.SpeciesComparator{},
	}
	for _, set := range user {
		set(&o) // apply in order; last-writer-wins
	}
	finalizeOptions(&o)

	return o
}

// finalizeOptions derives the tolerance scale unless explicitly overridden.
func finalizeOptions(o *options) {
	if o.tolScale != nil {
		return
	}
	if o.scale {
		o.tolScale = MeanAtomicVolumeScale
		return
	}
	o.tolScale = UnitScale
}

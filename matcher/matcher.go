package matcher

import (
	"sort"

	"github.com/xtalgo/xtal/compare"
	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/lattice"
)

// Incomparable is the finite sentinel StructureDistance returns when two
// structures cannot be matched, keeping distances totally ordered for
// sorting and ranking (never NaN or ±Inf).
const Incomparable = 1e9

// Matcher decides structural equivalence under the configured tolerances.
// Immutable after New; safe for concurrent use from multiple goroutines.
type Matcher struct {
	opt options
}

// New builds a Matcher from functional options resolved against the
// documented defaults.
func New(opts ...Option) *Matcher {
	return &Matcher{opt: gatherOptions(opts...)}
}

// Comparator returns the active species comparator.
func (m *Matcher) Comparator() compare.Comparator { return m.opt.cmp }

// CompositionHash returns the comparator's composition fingerprint for s,
// the same value the matching pipeline uses for pre-rejection. Exposed for
// batch pre-filtering.
func (m *Matcher) CompositionHash(s *crystal.Structure) (uint64, error) {
	if s == nil {
		return 0, ErrNilStructure
	}

	return m.opt.cmp.Hash(s.Composition()), nil
}

// Fit reports whether a and b are the same structure up to lattice
// rescaling/supercell relations, rigid translation and site permutation.
// Tolerance failure is a normal false, not an error.
func (m *Matcher) Fit(a, b *crystal.Structure) (bool, error) {
	res, err := m.match(a, b)

	return res != nil, err
}

// RMSDist returns the normalized rms and maximum site displacements of the
// accepted match. ok is true exactly when Fit would return true; when ok,
// rms ≤ maxDist. Displacements are in units of the tolerance scale.
func (m *Matcher) RMSDist(a, b *crystal.Structure) (rms, maxDist float64, ok bool, err error) {
	res, err := m.match(a, b)
	if err != nil || res == nil {
		return 0, 0, false, err
	}

	return res.RMS, res.Max, true, nil
}

// StructureDistance returns a normalized scalar distance: the rms
// displacement of the accepted match, or the finite sentinel Incomparable
// when the structures do not match. Always finite.
func (m *Matcher) StructureDistance(a, b *crystal.Structure) (float64, error) {
	res, err := m.match(a, b)
	if err != nil {
		return Incomparable, err
	}
	if res == nil {
		return Incomparable, nil
	}

	return res.RMS, nil
}

// match runs the full pipeline:
// composition precheck → primitive folding → reduction → lattice/supercell
// search → site assignment. A nil result with nil error is a clean
// "does not match".
func (m *Matcher) match(a, b *crystal.Structure) (*result, error) {
	if a == nil || b == nil {
		return nil, ErrNilStructure
	}

	// Stage 1: composition precheck. Equal compositions must hash equal;
	// a hash match with unequal compositions is a legal collision and is
	// resolved right here, before any geometry.
	ha, hb := m.opt.cmp.Hash(a.Composition()), m.opt.cmp.Hash(b.Composition())
	eq := compositionsEqual(m.opt.cmp, a.Composition().Fractional(), b.Composition().Fractional())
	if ha != hb {
		if eq {
			return nil, ErrComparatorInvariant
		}

		return nil, nil
	}
	if !eq {
		return nil, nil
	}

	// Stage 2: primitive folding (transient copies; inputs stay untouched).
	if m.opt.primitive {
		a = m.primitiveCell(a)
		b = m.primitiveCell(b)
	}

	// Stage 3: orient so the supercell search expands b onto a.
	if b.NumSites() > a.NumSites() {
		a, b = b, a
	}
	na, nb := a.NumSites(), b.NumSites()
	if na%nb != 0 {
		return nil, nil
	}
	ratio := na / nb
	if ratio != 1 && !m.opt.primitive && !m.opt.scale {
		// Supercell-aware lattice matching is enabled by primitive_cell or
		// scale; with both off, only equal site counts are comparable.
		return nil, nil
	}

	// Stage 4: volume normalization, then LLL-reduced working copies so
	// length/angle comparison is basis-independent.
	if m.opt.scale {
		target := a.Lattice().Volume() / float64(na) * float64(nb)
		b = withLattice(b, b.Lattice().ScaledToVolume(target))
	}
	a, b = reducedCell(a), reducedCell(b)

	normLen := m.opt.tolScale(a.Lattice().Volume(), na)

	// Stage 5: lattice transform candidates in enumeration order; for each,
	// build the supercell and attempt assignment. First acceptance wins.
	for _, t := range matchLattices(a.Lattice(), b.Lattice(), ratio, m.opt.ltol, m.opt.angleTol) {
		bSup, err := makeSupercell(b, t)
		if err != nil {
			continue // enumeration incomplete for this transform; try the next
		}
		if res, ok := assignSites(a, bSup, m.opt.cmp, m.opt.stol, normLen); ok {
			return res, nil
		}
	}

	return nil, nil
}

// withLattice rebuilds s on lat, keeping fractional coordinates.
func withLattice(s *crystal.Structure, lat *lattice.Lattice) *crystal.Structure {
	ns, _ := crystal.NewStructure(lat, s.Sites()) // sites already canonical

	return ns
}

// reducedCell re-expresses s in its LLL-reduced basis. The physical
// structure is unchanged: Cartesian positions are preserved and re-wrapped.
func reducedCell(s *crystal.Structure) *crystal.Structure {
	red := s.Lattice().Reduce()
	sites := s.Sites()
	for i := range sites {
		sites[i].Frac = red.Fractional(s.Lattice().Cartesian(sites[i].Frac))
	}
	ns, _ := crystal.NewStructure(red, sites)

	return ns
}

// mergedEntry is a comparator-folded composition entry with a quantized
// fractional amount.
type mergedEntry struct {
	sp crystal.Species
	q  int64
}

// mergeUnder folds fractional composition c under cmp's equivalence,
// iterating species in sorted label order for determinism.
func mergeUnder(cmp compare.Comparator, c crystal.Composition) []mergedEntry {
	sps := sortedSpecies(c)
	type acc struct {
		sp  crystal.Species
		amt float64
	}
	var folded []acc
	for _, sp := range sps {
		amt := c[sp]
		merged := false
		for i := range folded {
			if cmp.Equal(folded[i].sp, sp) {
				folded[i].amt += amt
				merged = true
				break
			}
		}
		if !merged {
			folded = append(folded, acc{sp: sp, amt: amt})
		}
	}
	out := make([]mergedEntry, len(folded))
	for i, f := range folded {
		out[i] = mergedEntry{sp: f.sp, q: quantize(f.amt)}
	}

	return out
}

// compositionsEqual reports equality of two fractional compositions under
// cmp, at the same quantization the hash uses.
func compositionsEqual(cmp compare.Comparator, a, b crystal.Composition) bool {
	ea, eb := mergeUnder(cmp, a), mergeUnder(cmp, b)
	if len(ea) != len(eb) {
		return false
	}
	used := make([]bool, len(eb))
	for _, x := range ea {
		found := false
		for j, y := range eb {
			if used[j] || x.q != y.q || !cmp.Equal(x.sp, y.sp) {
				continue
			}
			used[j] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}

	return true
}

// quantize maps a fractional amount onto the hash quantization grid.
func quantize(amt float64) int64 {
	return int64(amt/compare.AmountQuantum + 0.5)
}

// sortedSpecies returns c's species sorted by canonical label.
func sortedSpecies(c crystal.Composition) []crystal.Species {
	sps := make([]crystal.Species, 0, len(c))
	for sp := range c {
		sps = append(sps, sp)
	}
	sort.Slice(sps, func(i, j int) bool { return sps[i].String() < sps[j].String() })

	return sps
}

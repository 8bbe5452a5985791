package matcher

import (
	"math"
	"sort"

	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/lattice"
)

// primitiveCell folds s to a smaller cell as long as a proper internal
// translation maps the structure onto itself within the site tolerance.
// Returns s itself when no such translation exists. Deterministic: each
// folding step tries the shortest valid translation first and basis rows in
// a, b, c order.
func (m *Matcher) primitiveCell(s *crystal.Structure) *crystal.Structure {
	for {
		folded, ok := m.foldOnce(s)
		if !ok {
			return s
		}
		s = folded
	}
}

// foldOnce performs one reduction step: find the internal translations that
// leave the structure invariant, then shrink the cell by substituting one
// basis vector with such a translation and re-folding the sites.
func (m *Matcher) foldOnce(s *crystal.Structure) (*crystal.Structure, bool) {
	n := s.NumSites()
	if n < 2 {
		return nil, false
	}
	lat := s.Lattice()
	tolCart := m.opt.stol * m.opt.tolScale(lat.Volume(), n)

	// Reference: first site of the least-common species group — the fewest
	// translation candidates to test.
	refIdx, refCount := 0, n+1
	for i := 0; i < n; i++ {
		count := 0
		for j := 0; j < n; j++ {
			if m.opt.cmp.Equal(s.Site(i).Species, s.Site(j).Species) {
				count++
			}
		}
		if count < refCount {
			refCount, refIdx = count, i
		}
	}
	ref := s.Site(refIdx)

	type candidate struct {
		frac lattice.Vec3
		dist float64
	}
	var valid []candidate
	for i := 0; i < n; i++ {
		if i == refIdx || !m.opt.cmp.Equal(ref.Species, s.Site(i).Species) {
			continue
		}
		t := s.Site(i).Frac.Sub(ref.Frac)
		if !mapsOntoItself(s, m, t, tolCart) {
			continue
		}
		_, d := lat.ShortestVector(lattice.Vec3{}, t)
		valid = append(valid, candidate{frac: t, dist: d})
	}
	if len(valid) == 0 {
		return nil, false
	}
	// Shortest translation first; SliceStable keeps site order on ties.
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].dist < valid[j].dist })

	oldVol := lat.Volume()
	for _, cand := range valid {
		cart, _ := lat.ShortestVector(lattice.Vec3{}, cand.frac)
		for row := 0; row < 3; row++ {
			basis := lat.Basis()
			basis[row] = cart
			d := rawDet3(basis)
			vol := math.Abs(d)
			if vol < 1e-12 {
				continue
			}
			if d < 0 {
				// -t is an equally valid translation; flip to stay right-handed.
				for c := 0; c < 3; c++ {
					basis[row][c] = -basis[row][c]
				}
			}
			ratio := oldVol / vol
			ir := math.Round(ratio)
			if ir < 2 || math.Abs(ratio-ir) > 1e-6 || n%int(ir) != 0 {
				continue
			}
			newLat, err := lattice.New(basis)
			if err != nil {
				continue
			}
			if folded, ok := foldSites(s, newLat, n/int(ir), tolCart); ok {
				return folded, true
			}
		}
	}

	return nil, false
}

// mapsOntoItself checks that shifting every site by t lands on a
// comparator-equal site within tolCart under minimum image.
func mapsOntoItself(s *crystal.Structure, m *Matcher, t lattice.Vec3, tolCart float64) bool {
	n := s.NumSites()
	lat := s.Lattice()
	for p := 0; p < n; p++ {
		shifted := lattice.WrapFrac(s.Site(p).Frac.Add(t))
		matched := false
		for q := 0; q < n; q++ {
			if !m.opt.cmp.Equal(s.Site(p).Species, s.Site(q).Species) {
				continue
			}
			if _, d := lat.ShortestVector(shifted, s.Site(q).Frac); d <= tolCart {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// foldSites re-expresses s's sites in newLat and deduplicates periodic
// images, keeping first occurrences. Succeeds only when exactly want
// distinct sites remain — anything else means the substituted basis does
// not actually generate the structure's translation group.
func foldSites(s *crystal.Structure, newLat *lattice.Lattice, want int, tolCart float64) (*crystal.Structure, bool) {
	old := s.Lattice()
	var folded []crystal.Site
	for i := 0; i < s.NumSites(); i++ {
		site := s.Site(i)
		f := lattice.WrapFrac(newLat.Fractional(old.Cartesian(site.Frac)))
		dup := false
		for _, kept := range folded {
			if kept.Species != site.Species {
				continue
			}
			if _, d := newLat.ShortestVector(f, kept.Frac); d <= tolCart {
				dup = true
				break
			}
		}
		if !dup {
			folded = append(folded, crystal.Site{Species: site.Species, Frac: f, Occupancy: site.Occupancy})
		}
	}
	if len(folded) != want {
		return nil, false
	}
	ns, err := crystal.NewStructure(newLat, folded)
	if err != nil {
		return nil, false
	}

	return ns, true
}

// rawDet3 is the determinant of a raw basis matrix (pre-validation, so it
// cannot go through a constructed Lattice).
func rawDet3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

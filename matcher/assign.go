package matcher

import (
	"math"

	"github.com/xtalgo/xtal/compare"
	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/lattice"
)

// result carries the displacement metrics of an accepted match, in units of
// the tolerance scale.
type result struct {
	RMS float64
	Max float64
}

// assignSites — translation search and tolerant site correspondence.
//
// Description:
//
//	Given a and b with matched lattices and equal site counts, finds a rigid
//	translation under which every b-site has a comparator-equal a-site
//	within stol (normalized by normLen). Translation candidates are anchored
//	by aligning one b-site onto each comparator-equal a-site; the anchor is
//	the b-site whose species is rarest in a, which minimizes the number of
//	candidates without changing the outcome.
//
// Determinism & short-circuiting:
//
//	Candidates are tried in ascending a-site index. For each candidate every
//	b-site greedily takes its nearest comparator-equal a-site under minimum
//	image; equal distances keep the lowest a-index (strict less-than). The
//	first candidate whose maximum displacement is ≤ stol is accepted and the
//	search stops — no optimum-seeking beyond the first success.
func assignSites(a, b *crystal.Structure, cmp compare.Comparator, stol, normLen float64) (*result, bool) {
	n := a.NumSites()
	if b.NumSites() != n {
		return nil, false
	}
	lat := a.Lattice()

	// Anchor selection: rarest species of b in a. A species with no
	// comparator-equal partner makes assignment impossible outright.
	anchor, bestCount := 0, n+1
	for i := 0; i < n; i++ {
		count := 0
		for j := 0; j < n; j++ {
			if cmp.Equal(b.Site(i).Species, a.Site(j).Species) {
				count++
			}
		}
		if count == 0 {
			return nil, false
		}
		if count < bestCount {
			bestCount, anchor = count, i
		}
	}

	anchorSp := b.Site(anchor).Species
	fb0 := b.Site(anchor).Frac
	for j := 0; j < n; j++ {
		if !cmp.Equal(anchorSp, a.Site(j).Species) {
			continue
		}
		trans := a.Site(j).Frac.Sub(fb0)

		maxD, sumSq, ok := 0.0, 0.0, true
		for i := 0; i < n; i++ {
			fb := lattice.WrapFrac(b.Site(i).Frac.Add(trans))
			nearest := math.Inf(1)
			for k := 0; k < n; k++ {
				if !cmp.Equal(b.Site(i).Species, a.Site(k).Species) {
					continue
				}
				if _, d := lat.ShortestVector(fb, a.Site(k).Frac); d < nearest {
					nearest = d
				}
			}
			nd := nearest / normLen
			if nd > stol {
				ok = false
				break
			}
			if nd > maxD {
				maxD = nd
			}
			sumSq += nd * nd
		}
		if ok {
			return &result{RMS: math.Sqrt(sumSq / float64(n)), Max: maxD}, true
		}
	}

	return nil, false
}

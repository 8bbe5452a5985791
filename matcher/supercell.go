package matcher

import (
	"math"

	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/lattice"
)

// dupFracEps is the fractional-coordinate tolerance for recognizing the
// same periodic image during supercell enumeration and primitive folding.
const dupFracEps = 1e-6

// makeSupercell expands s by the integer transform t (det(t) = k > 0): the
// new lattice is t·B and every original site contributes exactly k images.
// Image order is deterministic: per original site, translations are scanned
// in ascending lexicographic order.
func makeSupercell(s *crystal.Structure, t transform) (*crystal.Structure, error) {
	k := idet3(t)
	old := s.Lattice()
	oldBasis := old.Basis()

	var nb [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for c := 0; c < 3; c++ {
				nb[i][j] += float64(t[i][c]) * oldBasis[c][j]
			}
		}
	}
	newLat, err := lattice.New(nb)
	if err != nil {
		return nil, err
	}

	// The new cell, expressed in old fractional coordinates, is spanned by
	// the rows of t; integer translations need only cover its bounding box.
	var lo, hi [3]int
	for corner := 0; corner < 8; corner++ {
		var p [3]int
		for d := 0; d < 3; d++ {
			if corner&(1<<d) != 0 {
				p[0] += t[d][0]
				p[1] += t[d][1]
				p[2] += t[d][2]
			}
		}
		for d := 0; d < 3; d++ {
			if p[d] < lo[d] {
				lo[d] = p[d]
			}
			if p[d] > hi[d] {
				hi[d] = p[d]
			}
		}
	}

	sites := make([]crystal.Site, 0, s.NumSites()*k)
	for si := 0; si < s.NumSites(); si++ {
		site := s.Site(si)
		images := make([]lattice.Vec3, 0, k)
		for x := lo[0] - 1; x <= hi[0]+1 && len(images) < k; x++ {
			for y := lo[1] - 1; y <= hi[1]+1 && len(images) < k; y++ {
				for z := lo[2] - 1; z <= hi[2]+1 && len(images) < k; z++ {
					shifted := site.Frac.Add(lattice.Vec3{float64(x), float64(y), float64(z)})
					f := lattice.WrapFrac(newLat.Fractional(old.Cartesian(shifted)))
					if containsImage(images, f) {
						continue
					}
					images = append(images, f)
				}
			}
		}
		if len(images) != k {
			return nil, ErrSupercell
		}
		for _, f := range images {
			sites = append(sites, crystal.Site{Species: site.Species, Frac: f, Occupancy: site.Occupancy})
		}
	}

	return crystal.NewStructure(newLat, sites)
}

// containsImage reports whether f duplicates a collected image up to
// periodic wrapping.
func containsImage(images []lattice.Vec3, f lattice.Vec3) bool {
	for _, g := range images {
		same := true
		for d := 0; d < 3; d++ {
			diff := f[d] - g[d]
			diff -= math.Round(diff)
			if math.Abs(diff) > dupFracEps {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}

	return false
}

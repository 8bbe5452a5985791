package matcher

import (
	"math"

	"github.com/xtalgo/xtal/lattice"
)

// transform is an integer basis change: row i of the matched lattice is the
// integer combination transform[i] of b's basis vectors.
type transform [3][3]int

// candidateVec is an integer combination of b's basis with its Cartesian
// image, precomputed once per search.
type candidateVec struct {
	combo [3]int
	cart  lattice.Vec3
}

// matchLattices — supercell-aware lattice transform search.
//
// Description:
//
//	Finds integer 3×3 transforms t with det(t) == ratio such that the rows
//	of t·Lb reproduce La's basis vector lengths within ltol (relative) and
//	its cell angles within angleTol (degrees). Both lattices are expected
//	in reduced form; ratio is fixed by the site-count relation, so the
//	required |det| is unique and the spec's increasing-|det| ordering
//	degenerates to pure lexicographic enumeration.
//
// Algorithm Outline:
//  1. Enumerate integer combinations (i,j,k) of Lb's basis within the
//     search radius, in ascending lexicographic order.
//  2. Bucket each combination under every target axis whose length it
//     reproduces within ltol.
//  3. Sweep the axis buckets as a triple loop (again lexicographic),
//     keeping triples with det == +ratio (right-handed, exact
//     multiplicity) whose three angles match within angleTol.
//
// Determinism:
//
//	The returned slice is in strict enumeration order; callers take the
//	first transform whose site assignment succeeds, so the chosen transform
//	is a pure function of the inputs.
func matchLattices(la, lb *lattice.Lattice, ratio int, ltol, angleTol float64) []transform {
	targetLen := la.Lengths()
	targetAng := la.Angles()
	r := searchRadius(targetLen, lb, ltol)

	var cands [3][]candidateVec
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			for k := -r; k <= r; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				cart := lb.Row(0).Scale(float64(i)).
					Add(lb.Row(1).Scale(float64(j))).
					Add(lb.Row(2).Scale(float64(k)))
				l := cart.Norm()
				for axis := 0; axis < 3; axis++ {
					if math.Abs(l-targetLen[axis]) <= ltol*targetLen[axis] {
						cands[axis] = append(cands[axis], candidateVec{combo: [3]int{i, j, k}, cart: cart})
					}
				}
			}
		}
	}

	var out []transform
	for _, c0 := range cands[0] {
		for _, c1 := range cands[1] {
			for _, c2 := range cands[2] {
				t := transform{c0.combo, c1.combo, c2.combo}
				if idet3(t) != ratio {
					continue
				}
				if !anglesWithin(c0.cart, c1.cart, c2.cart, targetAng, angleTol) {
					continue
				}
				out = append(out, t)
			}
		}
	}

	return out
}

// searchRadius bounds the integer combinations: any vector matching the
// longest target axis within ltol has coefficients no larger than that
// length over the shortest reduced basis vector of b, plus one for slack.
// An elongated n×1×1 supercell needs an axis coefficient of n, so the bound
// must follow the geometry, not the multiplicity. Never below 2 so
// unimodular re-orientations of the same cell are always reachable.
func searchRadius(targetLen lattice.Vec3, lb *lattice.Lattice, ltol float64) int {
	shortest := math.Inf(1)
	longest := 0.0
	for axis := 0; axis < 3; axis++ {
		if l := lb.Row(axis).Norm(); l < shortest {
			shortest = l
		}
		if targetLen[axis] > longest {
			longest = targetLen[axis]
		}
	}
	r := int(math.Ceil(longest*(1+ltol)/shortest)) + 1
	if r < 2 {
		r = 2
	}

	return r
}

// anglesWithin checks the three conventional angles α=∠(b,c), β=∠(a,c),
// γ=∠(a,b) of the candidate triple against the target, in degrees.
func anglesWithin(a, b, c lattice.Vec3, target lattice.Vec3, tol float64) bool {
	return math.Abs(vecAngleDeg(b, c)-target[0]) <= tol &&
		math.Abs(vecAngleDeg(a, c)-target[1]) <= tol &&
		math.Abs(vecAngleDeg(a, b)-target[2]) <= tol
}

// vecAngleDeg returns the angle between v and w in degrees.
func vecAngleDeg(v, w lattice.Vec3) float64 {
	cos := v.Dot(w) / (v.Norm() * w.Norm())
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// idet3 returns the determinant of an integer 3×3 matrix.
func idet3(m transform) int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

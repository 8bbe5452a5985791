package lattice

import "math"

// lllDelta is the Lovász condition parameter. 0.75 is the classical choice:
// strong enough reduction for exact 27-image minimum-image scans, guaranteed
// termination.
const lllDelta = 0.75

// maxLLLSweeps caps the reduction loop. LLL on a 3-row basis terminates in a
// handful of sweeps; the cap only guards against pathological float input.
const maxLLLSweeps = 100

// Reduce — Lenstra–Lenstra–Lovász lattice basis reduction.
//
// Description:
//
//	Reduce returns a new Lattice spanning the same periodic point set whose
//	basis vectors are short and near-orthogonal, so that length/angle
//	comparisons between two lattices become basis-independent and the
//	27-neighbor minimum-image scan in ShortestVector is exact.
//
// Algorithm Outline:
//  1. Gram–Schmidt orthogonalize the three rows, tracking the μ coefficients.
//  2. Size-reduce row k against rows k-1..0 (subtract round(μ) multiples).
//  3. If the Lovász condition |b*_k|² ≥ (δ − μ²) |b*_{k-1}|² holds, advance k;
//     otherwise swap rows k, k-1 and step back.
//  4. Restore right-handedness by negating the last row if det < 0.
//
// Determinism:
//
//	Fixed sweep order and round-half-away-from-zero size reduction make the
//	output a pure function of the input basis.
//
// Complexity: O(1) for the fixed 3×3 case (bounded sweeps).
func (l *Lattice) Reduce() *Lattice {
	b := l.basis

	for sweep := 0; sweep < maxLLLSweeps; sweep++ {
		mu, bstar := gramSchmidt(b)

		k, swapped := 1, false
		for k <= 2 {
			// Size reduction against all previous rows.
			for j := k - 1; j >= 0; j-- {
				if q := math.Round(mu[k][j]); q != 0 {
					for c := 0; c < 3; c++ {
						b[k][c] -= q * b[j][c]
					}
					mu, bstar = gramSchmidt(b)
				}
			}
			// Lovász condition.
			lhs := Vec3(bstar[k]).Dot(Vec3(bstar[k]))
			rhs := (lllDelta - mu[k][k-1]*mu[k][k-1]) * Vec3(bstar[k-1]).Dot(Vec3(bstar[k-1]))
			if lhs >= rhs {
				k++
				continue
			}
			b[k], b[k-1] = b[k-1], b[k]
			mu, bstar = gramSchmidt(b)
			swapped = true
			if k > 1 {
				k--
			}
		}
		if !swapped {
			break
		}
	}

	// Swaps may flip the handedness; the spanned point set is unchanged by
	// negating one vector, so restore volume > 0 on the last row.
	if det3(b) < 0 {
		for c := 0; c < 3; c++ {
			b[2][c] = -b[2][c]
		}
	}
	out, _ := New(b)

	return out
}

// gramSchmidt returns the μ coefficients and orthogonalized rows of b.
func gramSchmidt(b [3][3]float64) (mu [3][3]float64, bstar [3][3]float64) {
	for i := 0; i < 3; i++ {
		bstar[i] = b[i]
		for j := 0; j < i; j++ {
			denom := Vec3(bstar[j]).Dot(Vec3(bstar[j]))
			mu[i][j] = Vec3(b[i]).Dot(Vec3(bstar[j])) / denom
			for c := 0; c < 3; c++ {
				bstar[i][c] -= mu[i][j] * bstar[j][c]
			}
		}
	}

	return mu, bstar
}

package lattice

import "math"

// degPerRad converts radians to degrees for the angle accessors.
const degPerRad = 180.0 / math.Pi

// volumeEps is the determinant threshold below which a basis is considered
// degenerate. Relative to typical cell volumes (tens to thousands of Å³)
// this is far below any physical lattice.
const volumeEps = 1e-12

// Lattice is a right-handed periodic cell: rows of the basis matrix are the
// a, b, c lattice vectors in Cartesian coordinates.
//
// A Lattice is an immutable value after construction; every derived quantity
// (lengths, angles, metric, reciprocal) is computed on demand.
type Lattice struct {
	basis [3][3]float64
}

// New validates basis and returns the corresponding Lattice.
//
// Errors:
//   - ErrNonFinite  — any NaN/±Inf entry.
//   - ErrDegenerate — determinant ≤ 0 (zero-volume or left-handed cell).
func New(basis [3][3]float64) (*Lattice, error) {
	for i := 0; i < 3; i++ {
		if !Vec3(basis[i]).IsFinite() {
			return nil, ErrNonFinite
		}
	}
	if det3(basis) <= volumeEps {
		return nil, ErrDegenerate
	}

	return &Lattice{basis: basis}, nil
}

// Cubic returns the cubic lattice with edge length a.
// It panics on a ≤ 0 (programmer error, mirrors option-constructor policy).
func Cubic(a float64) *Lattice {
	l, err := New([3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}})
	if err != nil {
		panic("lattice: Cubic requires a > 0")
	}

	return l
}

// Basis returns a copy of the row-major basis matrix.
func (l *Lattice) Basis() [3][3]float64 { return l.basis }

// Row returns the i-th basis vector (0=a, 1=b, 2=c).
func (l *Lattice) Row(i int) Vec3 { return l.basis[i] }

// Lengths returns the three basis vector lengths |a|, |b|, |c|.
func (l *Lattice) Lengths() Vec3 {
	return Vec3{Vec3(l.basis[0]).Norm(), Vec3(l.basis[1]).Norm(), Vec3(l.basis[2]).Norm()}
}

// Angles returns the conventional cell angles in degrees:
// α = ∠(b,c), β = ∠(a,c), γ = ∠(a,b).
func (l *Lattice) Angles() Vec3 {
	a, b, c := Vec3(l.basis[0]), Vec3(l.basis[1]), Vec3(l.basis[2])

	return Vec3{angleDeg(b, c), angleDeg(a, c), angleDeg(a, b)}
}

// Volume returns the (positive) cell volume det(basis).
func (l *Lattice) Volume() float64 { return det3(l.basis) }

// Metric returns the metric tensor G = B·Bᵀ, the dot products of the basis
// vectors. Fractional displacements df have squared Cartesian length
// df·G·df.
func (l *Lattice) Metric() [3][3]float64 {
	var g [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			g[i][j] = Vec3(l.basis[i]).Dot(Vec3(l.basis[j]))
		}
	}

	return g
}

// Inverse returns B⁻¹ of the basis matrix.
func (l *Lattice) Inverse() [3][3]float64 { return inv3(l.basis) }

// Reciprocal returns the reciprocal lattice (2π convention): the rows of
// the reciprocal basis are 2π·(B⁻¹)ᵀ.
func (l *Lattice) Reciprocal() *Lattice {
	inv := inv3(l.basis)
	var rec [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rec[i][j] = 2 * math.Pi * inv[j][i]
		}
	}
	// Transposing an inverse of a right-handed basis keeps det > 0,
	// so reconstruction cannot fail.
	r, _ := New(rec)

	return r
}

// Cartesian converts fractional coordinates to Cartesian: c = f·B.
func (l *Lattice) Cartesian(f Vec3) Vec3 {
	var c Vec3
	for j := 0; j < 3; j++ {
		c[j] = f[0]*l.basis[0][j] + f[1]*l.basis[1][j] + f[2]*l.basis[2][j]
	}

	return c
}

// Fractional converts Cartesian coordinates to fractional: f = c·B⁻¹.
func (l *Lattice) Fractional(c Vec3) Vec3 {
	inv := inv3(l.basis)
	var f Vec3
	for j := 0; j < 3; j++ {
		f[j] = c[0]*inv[0][j] + c[1]*inv[1][j] + c[2]*inv[2][j]
	}

	return f
}

// ScaledToVolume returns a copy of the lattice isotropically rescaled to the
// target volume v (shape and orientation preserved). It panics on v ≤ 0.
func (l *Lattice) ScaledToVolume(v float64) *Lattice {
	if !(v > 0) || math.IsInf(v, 0) {
		panic("lattice: ScaledToVolume requires finite v > 0")
	}
	factor := math.Cbrt(v / l.Volume())
	var scaled [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			scaled[i][j] = l.basis[i][j] * factor
		}
	}
	out, _ := New(scaled)

	return out
}

// angleDeg returns the angle between v and w in degrees, clamped against
// float drift outside [-1,1] before the acos.
func angleDeg(v, w Vec3) float64 {
	cos := v.Dot(w) / (v.Norm() * w.Norm())
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * degPerRad
}

// det3 returns the determinant of a 3×3 matrix.
func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// inv3 returns the inverse of a 3×3 matrix via the adjugate.
// Callers guarantee a non-singular input (every Lattice has det > 0).
func inv3(m [3][3]float64) [3][3]float64 {
	d := det3(m)
	var inv [3][3]float64
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / d
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / d
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / d
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / d
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / d
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / d
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / d
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / d
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / d

	return inv
}

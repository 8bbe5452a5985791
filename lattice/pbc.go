package lattice

import "math"

// WrapFrac wraps fractional coordinates componentwise into the canonical
// cell [0,1). Values that land on 1.0 after float rounding are folded to 0.
func WrapFrac(f Vec3) Vec3 {
	var w Vec3
	for i, x := range f {
		w[i] = x - math.Floor(x)
		if w[i] >= 1 { // floor(x) can round such that x-floor(x) == 1
			w[i] = 0
		}
	}

	return w
}

// ShortestVector returns the minimum-image displacement from fractional
// point fa to fb: the Cartesian vector to the closest periodic replica of
// fb, and its length.
//
// The fractional delta is first folded to the central cell, then the 27
// neighbor images (offsets in {-1,0,1}³) are scanned in a fixed order; a
// strict less-than comparison keeps the first of any equal-length images,
// so tie resolution is identical on every run.
//
// The scan is exact on an LLL-reduced cell; for a heavily skewed basis,
// call Reduce first.
func (l *Lattice) ShortestVector(fa, fb Vec3) (cart Vec3, dist float64) {
	df := fb.Sub(fa)
	for i := range df {
		df[i] -= math.Round(df[i])
	}

	dist = math.Inf(1)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				c := l.Cartesian(Vec3{df[0] + float64(di), df[1] + float64(dj), df[2] + float64(dk)})
				if d := c.Norm(); d < dist {
					dist = d
					cart = c
				}
			}
		}
	}

	return cart, dist
}

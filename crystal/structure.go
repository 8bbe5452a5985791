package crystal

import (
	"math"

	"github.com/xtalgo/xtal/lattice"
)

// Structure is a lattice plus an ordered sequence of sites. It is a value:
// construct it once, then only read it. All fractional coordinates are
// wrapped into [0,1) at construction.
type Structure struct {
	lat   *lattice.Lattice
	sites []Site
}

// NewStructure validates lat and sites and returns the canonical Structure.
// A zero site occupancy is promoted to the default full occupancy 1.
//
// Errors:
//   - ErrNilLattice   — lat is nil.
//   - ErrNoSites      — sites is empty.
//   - ErrEmptyElement — a site has an empty element symbol.
//   - ErrBadCoordinate — a fractional coordinate is NaN/±Inf.
//   - ErrBadOccupancy — occupancy outside (0, 1].
func NewStructure(lat *lattice.Lattice, sites []Site) (*Structure, error) {
	if lat == nil {
		return nil, ErrNilLattice
	}
	if len(sites) == 0 {
		return nil, ErrNoSites
	}

	canonical := make([]Site, len(sites))
	for i, s := range sites {
		if s.Species.Element == "" {
			return nil, ErrEmptyElement
		}
		if !s.Frac.IsFinite() {
			return nil, ErrBadCoordinate
		}
		if s.Occupancy == 0 {
			s.Occupancy = 1
		}
		if math.IsNaN(s.Occupancy) || s.Occupancy <= 0 || s.Occupancy > 1 {
			return nil, ErrBadOccupancy
		}
		s.Frac = lattice.WrapFrac(s.Frac)
		canonical[i] = s
	}

	return &Structure{lat: lat, sites: canonical}, nil
}

// Lattice returns the structure's lattice.
func (s *Structure) Lattice() *lattice.Lattice { return s.lat }

// NumSites returns the number of sites.
func (s *Structure) NumSites() int { return len(s.sites) }

// Site returns the i-th site.
func (s *Structure) Site(i int) Site { return s.sites[i] }

// Sites returns a copy of the site list, preserving order.
func (s *Structure) Sites() []Site {
	out := make([]Site, len(s.sites))
	copy(out, s.sites)

	return out
}

// Composition sums site occupancies per species.
func (s *Structure) Composition() Composition {
	c := make(Composition, len(s.sites))
	for _, site := range s.sites {
		c[site.Species] += site.Occupancy
	}

	return c
}

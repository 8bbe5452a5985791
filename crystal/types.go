package crystal

import (
	"fmt"

	"github.com/xtalgo/xtal/lattice"
)

// Species identifies what occupies a site: an element symbol plus an
// optional oxidation state. Oxidation 0 means neutral/unspecified; whether
// the state participates in equality is decided by the active comparator,
// never by this type.
type Species struct {
	Element   string
	Oxidation int
}

// String renders the conventional species label: "Fe3+", "O2-", "Na".
func (s Species) String() string {
	switch {
	case s.Oxidation > 0:
		return fmt.Sprintf("%s%d+", s.Element, s.Oxidation)
	case s.Oxidation < 0:
		return fmt.Sprintf("%s%d-", s.Element, -s.Oxidation)
	default:
		return s.Element
	}
}

// Site is a species at a fractional position. Occupancy is carried for
// callers that track partial occupation; composition amounts are
// occupancy-weighted, site geometry ignores it.
type Site struct {
	Species   Species
	Frac      lattice.Vec3
	Occupancy float64
}

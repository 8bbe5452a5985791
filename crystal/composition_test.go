package crystal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xtalgo/xtal/crystal"
)

func sp(el string, ox int) crystal.Species { return crystal.Species{Element: el, Oxidation: ox} }

// TestComposition_Fractional normalizes amounts to sum 1, so a supercell
// and its unit cell agree.
func TestComposition_Fractional(t *testing.T) {
	unit := crystal.Composition{sp("Na", 0): 1, sp("Cl", 0): 1}
	double := crystal.Composition{sp("Na", 0): 2, sp("Cl", 0): 2}

	fu, fd := unit.Fractional(), double.Fractional()
	assert.InDelta(t, 0.5, fu[sp("Na", 0)], 1e-12)
	assert.InDelta(t, fu[sp("Na", 0)], fd[sp("Na", 0)], 1e-12)
	assert.InDelta(t, fu[sp("Cl", 0)], fd[sp("Cl", 0)], 1e-12)
}

// TestComposition_Formula renders alphabetical element order and folds
// oxidation states.
func TestComposition_Formula(t *testing.T) {
	c := crystal.Composition{sp("Fe", 2): 1, sp("Fe", 3): 2, sp("O", -2): 4}
	assert.Equal(t, "Fe3 O4", c.Formula(), "magnetite folds Fe2+/Fe3+")
}

// TestComposition_ReducedFormula divides by the amount GCD.
func TestComposition_ReducedFormula(t *testing.T) {
	assert.Equal(t, "Fe2 O3",
		crystal.Composition{sp("Fe", 0): 4, sp("O", 0): 6}.ReducedFormula())
	assert.Equal(t, "Cl1 Na1",
		crystal.Composition{sp("Na", 0): 3, sp("Cl", 0): 3}.ReducedFormula())
}

// TestComposition_HillFormula pins the Hill convention.
func TestComposition_HillFormula(t *testing.T) {
	// Ethanol: C first, H second, rest alphabetical.
	c := crystal.Composition{sp("C", 0): 2, sp("H", 0): 6, sp("O", 0): 1}
	assert.Equal(t, "C2H6O", c.HillFormula())

	// No carbon: plain alphabetical.
	assert.Equal(t, "ClNa", crystal.Composition{sp("Na", 0): 1, sp("Cl", 0): 1}.HillFormula())
}

// TestComposition_AnonymousFormula: NaCl and KBr share a pattern; Fe2O3
// does not share it.
func TestComposition_AnonymousFormula(t *testing.T) {
	nacl := crystal.Composition{sp("Na", 0): 1, sp("Cl", 0): 1}
	kbr := crystal.Composition{sp("K", 0): 2, sp("Br", 0): 2} // reduced before lettering

	assert.Equal(t, nacl.AnonymousFormula(), kbr.AnonymousFormula())
	assert.NotEqual(t, nacl.AnonymousFormula(),
		crystal.Composition{sp("Fe", 0): 2, sp("O", 0): 3}.AnonymousFormula())
}

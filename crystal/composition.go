package crystal

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Composition maps species to amounts (site counts, occupancy-weighted).
// Amounts are non-negative; zero entries are treated as absent.
type Composition map[Species]float64

// amountEps bounds "is this amount an integer" checks in formula rendering.
const amountEps = 1e-8

// NumAtoms returns the total amount across all species.
func (c Composition) NumAtoms() float64 {
	var total float64
	for _, amt := range c {
		total += amt
	}

	return total
}

// Fractional returns the composition normalized so amounts sum to 1.
// Supercells and their unit cells therefore have identical fractional
// compositions, which is what the matcher's pre-rejection hash is built on.
func (c Composition) Fractional() Composition {
	total := c.NumAtoms()
	if total == 0 {
		return Composition{}
	}
	out := make(Composition, len(c))
	for sp, amt := range c {
		out[sp] = amt / total
	}

	return out
}

// elementAmounts folds oxidation states together and returns per-element
// amounts with a sorted element list (formulas are element-level renderings).
func (c Composition) elementAmounts() (map[string]float64, []string) {
	amounts := make(map[string]float64, len(c))
	for sp, amt := range c {
		if amt > 0 {
			amounts[sp.Element] += amt
		}
	}
	elements := make([]string, 0, len(amounts))
	for el := range amounts {
		elements = append(elements, el)
	}
	sort.Strings(elements)

	return amounts, elements
}

// Formula renders the composition with elements in alphabetical order,
// e.g. "Cl1 Na1" for rock salt. Deterministic for a given composition.
func (c Composition) Formula() string {
	amounts, elements := c.elementAmounts()
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		parts = append(parts, el+formatAmount(amounts[el]))
	}

	return strings.Join(parts, " ")
}

// HillFormula renders the Hill convention: carbon first, hydrogen second,
// remaining elements alphabetical; when no carbon is present all elements
// are alphabetical.
func (c Composition) HillFormula() string {
	amounts, elements := c.elementAmounts()
	ordered := elements
	if _, hasC := amounts["C"]; hasC {
		ordered = make([]string, 0, len(elements))
		ordered = append(ordered, "C")
		if _, hasH := amounts["H"]; hasH {
			ordered = append(ordered, "H")
		}
		for _, el := range elements {
			if el != "C" && el != "H" {
				ordered = append(ordered, el)
			}
		}
	}
	parts := make([]string, 0, len(ordered))
	for _, el := range ordered {
		amt := amounts[el]
		if amt == 1 {
			parts = append(parts, el)
			continue
		}
		parts = append(parts, el+formatAmount(amt))
	}

	return strings.Join(parts, "")
}

// ReducedFormula divides integer amounts by their greatest common divisor:
// "Fe4 O6" → "Fe2 O3". Non-integer amounts fall back to Formula.
func (c Composition) ReducedFormula() string {
	amounts, elements := c.elementAmounts()

	ints := make([]int, len(elements))
	for i, el := range elements {
		n := math.Round(amounts[el])
		if math.Abs(amounts[el]-n) > amountEps || n < 1 {
			return c.Formula()
		}
		ints[i] = int(n)
	}
	g := 0
	for _, n := range ints {
		g = gcd(g, n)
	}
	parts := make([]string, 0, len(elements))
	for i, el := range elements {
		parts = append(parts, fmt.Sprintf("%s%d", el, ints[i]/g))
	}

	return strings.Join(parts, " ")
}

// AnonymousFormula renders only the stoichiometric pattern: reduced amounts
// sorted ascending, assigned letters A, B, C, ... so that NaCl and KBr both
// read "A1 B1". Used for composition-pattern (anonymous) matching tests.
func (c Composition) AnonymousFormula() string {
	amounts, elements := c.elementAmounts()

	vals := make([]float64, 0, len(elements))
	allInt, g := true, 0
	for _, el := range elements {
		amt := amounts[el]
		vals = append(vals, amt)
		n := math.Round(amt)
		if math.Abs(amt-n) > amountEps || n < 1 {
			allInt = false
			continue
		}
		g = gcd(g, int(n))
	}
	if allInt && g > 1 {
		for i := range vals {
			vals[i] /= float64(g)
		}
	}
	sort.Float64s(vals)
	parts := make([]string, 0, len(vals))
	for i, v := range vals {
		parts = append(parts, anonSymbol(i)+formatAmount(v))
	}

	return strings.Join(parts, " ")
}

// anonSymbol yields A..Z then A1, B1, ... for pathological species counts.
func anonSymbol(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}

	return fmt.Sprintf("%c%d", 'A'+i%26, i/26)
}

// formatAmount renders an amount as an integer when it is one, otherwise
// with enough precision to round-trip typical occupancies.
func formatAmount(a float64) string {
	if n := math.Round(a); math.Abs(a-n) <= amountEps {
		return fmt.Sprintf("%d", int(n))
	}

	return fmt.Sprintf("%.4g", a)
}

// gcd of non-negative ints; gcd(0, n) == n.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

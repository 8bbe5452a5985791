package matcher

import "github.com/xtalgo/xtal/crystal"

// FitAnonymous reports equivalence under composition pattern only: every
// composition-preserving relabeling of b's species onto a's species set is
// tried through the standard pipeline, accepting on the first success.
//
// Relabelings are enumerated from the sorted species lists of both
// compositions (never map iteration): b-species i may map to any unused
// a-species with the same quantized fractional amount, assigned in
// ascending order — lexicographic enumeration, deterministic acceptance.
func (m *Matcher) FitAnonymous(a, b *crystal.Structure) (bool, error) {
	if a == nil || b == nil {
		return false, ErrNilStructure
	}

	fa, fb := a.Composition().Fractional(), b.Composition().Fractional()
	spa, spb := sortedSpecies(fa), sortedSpecies(fb)
	if len(spa) != len(spb) {
		return false, nil
	}
	qa := make([]int64, len(spa))
	for i, sp := range spa {
		qa[i] = quantize(fa[sp])
	}
	qb := make([]int64, len(spb))
	for i, sp := range spb {
		qb[i] = quantize(fb[sp])
	}

	used := make([]bool, len(spa))
	mapping := make([]int, len(spb)) // spb index → spa index

	var try func(i int) (bool, error)
	try = func(i int) (bool, error) {
		if i == len(spb) {
			b2, err := relabel(b, spb, spa, mapping)
			if err != nil {
				return false, err
			}
			res, err := m.match(a, b2)
			if err != nil {
				return false, err
			}

			return res != nil, nil
		}
		for j := range spa {
			if used[j] || qb[i] != qa[j] {
				continue
			}
			used[j] = true
			mapping[i] = j
			ok, err := try(i + 1)
			used[j] = false
			if err != nil || ok {
				return ok, err
			}
		}

		return false, nil
	}

	return try(0)
}

// relabel rebuilds b with species spb[i] replaced by spa[mapping[i]].
func relabel(b *crystal.Structure, spb, spa []crystal.Species, mapping []int) (*crystal.Structure, error) {
	table := make(map[crystal.Species]crystal.Species, len(spb))
	for i, sp := range spb {
		table[sp] = spa[mapping[i]]
	}
	sites := b.Sites()
	for i := range sites {
		if repl, ok := table[sites[i].Species]; ok {
			sites[i].Species = repl
		}
	}

	return crystal.NewStructure(b.Lattice(), sites)
}

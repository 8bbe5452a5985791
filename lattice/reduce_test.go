package lattice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtalgo/xtal/lattice"
)

// TestReduce_SkewedBasisRecoversCompactCell reduces a deliberately smeared
// cubic basis (row0 + 3·row1 substituted) back to cubic lengths.
func TestReduce_SkewedBasisRecoversCompactCell(t *testing.T) {
	skewed, err := lattice.New([3][3]float64{
		{4, 0, 0},
		{12, 4, 0}, // b + 3a of a 4Å cubic cell
		{0, 0, 4},
	})
	require.NoError(t, err)

	red := skewed.Reduce()

	assert.InDelta(t, skewed.Volume(), red.Volume(), 1e-9, "reduction preserves volume")
	lens := red.Lengths()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 4.0, lens[i], 1e-9, "reduced basis vector %d is short", i)
	}
}

// TestReduce_Idempotent verifies a second reduction changes nothing
// observable (lengths and angles fixed-point).
func TestReduce_Idempotent(t *testing.T) {
	l, err := lattice.New([3][3]float64{
		{5, 0, 0},
		{7, 3, 0},
		{2, 8, 6},
	})
	require.NoError(t, err)

	once := l.Reduce()
	twice := once.Reduce()

	l1, l2 := once.Lengths(), twice.Lengths()
	a1, a2 := once.Angles(), twice.Angles()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, l1[i], l2[i], 1e-9)
		assert.InDelta(t, a1[i], a2[i], 1e-9)
	}
}

// TestReduce_RightHandedOutput verifies the reduced basis keeps volume > 0.
func TestReduce_RightHandedOutput(t *testing.T) {
	l, err := lattice.New([3][3]float64{
		{1, 1, 0},
		{1, 0, 1},
		{0, 1, 1},
	})
	require.NoError(t, err)

	assert.Greater(t, l.Reduce().Volume(), 0.0)
}

// TestReduce_NeverLengthensShortestVector: the shortest reduced basis
// vector is never longer than the shortest input basis vector.
func TestReduce_NeverLengthensShortestVector(t *testing.T) {
	l, err := lattice.New([3][3]float64{
		{6, 1, 0},
		{4, 5, 0},
		{1, 2, 9},
	})
	require.NoError(t, err)

	minIn, minOut := math.Inf(1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if v := l.Row(i).Norm(); v < minIn {
			minIn = v
		}
		if v := l.Reduce().Row(i).Norm(); v < minOut {
			minOut = v
		}
	}
	assert.LessOrEqual(t, minOut, minIn+1e-9)
}

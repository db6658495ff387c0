package alg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandGapResampleBounds(t *testing.T) {
	orig := Grid1D(Linspace(2, 7, 10))
	scan, err := NewLinearScanRandGap(LinearScanRandGapConfig{Grid: orig, Seed: 42})
	require.NoError(t, err)

	lo := int(math.Ceil(0.8 * 10))
	hi := int(math.Ceil(1.2 * 10))

	sawLo, sawOther := false, false
	for i := 0; i < 1000; i++ {
		grid := scan.Resample()
		n := len(grid)
		require.GreaterOrEqual(t, n, lo)
		require.Less(t, n, hi)
		if n == lo {
			sawLo = true
		} else {
			sawOther = true
		}

		min, max := gridSpan(grid)
		require.Equal(t, 2.0, min)
		require.Equal(t, 7.0, max)
	}

	// With 1000 draws over 4 possible sizes, both branches fire.
	assert.True(t, sawLo)
	assert.True(t, sawOther)
}

func TestRandGapOriginalGridUntouched(t *testing.T) {
	orig := Grid1D(Linspace(0, 1, 5))
	scan, err := NewLinearScanRandGap(LinearScanRandGapConfig{Grid: orig, Seed: 1})
	require.NoError(t, err)

	f := func(x []float64) (float64, error) { return x[0], nil }
	for i := 0; i < 20; i++ {
		_, _, err := Run(scan, f)
		require.NoError(t, err)
	}

	assert.Equal(t, Grid1D(Linspace(0, 1, 5)), orig)
}

func TestRandGapRunMatchesResampledGrid(t *testing.T) {
	scan, err := NewLinearScanRandGap(LinearScanRandGapConfig{Grid: Grid1D(Linspace(3.5, 20, 100)), Seed: 7})
	require.NoError(t, err)

	f := func(x []float64) (float64, error) { return 2 * x[0], nil }
	path, out, err := Run(scan, f)
	require.NoError(t, err)

	outs, ok := out.([]float64)
	require.True(t, ok)
	require.Equal(t, path.Len(), len(outs))

	for i, x := range path.X {
		assert.Equal(t, 2*x[0], outs[i])
	}

	// Span of the resampled grid matches the original.
	min, max := gridSpan(path.X)
	assert.Equal(t, 3.5, min)
	assert.Equal(t, 20.0, max)
}

func TestRandGapSeededReproducible(t *testing.T) {
	a, err := NewLinearScanRandGap(LinearScanRandGapConfig{Grid: Grid1D(Linspace(0, 10, 50)), Seed: 99})
	require.NoError(t, err)
	b, err := NewLinearScanRandGap(LinearScanRandGapConfig{Grid: Grid1D(Linspace(0, 10, 50)), Seed: 99})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Resample(), b.Resample())
	}
}

func TestRandGapEmptyGrid(t *testing.T) {
	_, err := NewLinearScanRandGap(LinearScanRandGapConfig{Grid: [][]float64{}})
	assert.ErrorIs(t, err, &ConfigError{})
}

package alg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearScanVisitsGridInOrder(t *testing.T) {
	grid := Grid1D([]float64{1, 2, 3, 4, 5})
	scan, err := NewLinearScan(LinearScanConfig{Grid: grid})
	require.NoError(t, err)

	var queried [][]float64
	f := func(x []float64) (float64, error) {
		queried = append(queried, x)
		return x[0] * x[0], nil
	}

	path, out, err := Run(scan, f)
	require.NoError(t, err)

	assert.Equal(t, grid, queried)
	assert.Equal(t, len(grid), path.Len())
	assert.Equal(t, []float64{1, 4, 9, 16, 25}, out)
}

func TestLinearScanDefaults(t *testing.T) {
	scan, err := NewLinearScan(LinearScanConfig{})
	require.NoError(t, err)

	grid := scan.Grid()
	require.Len(t, grid, 100)
	assert.Equal(t, []float64{3.5}, grid[0])
	assert.Equal(t, []float64{20}, grid[99])
	assert.Equal(t, "LinearScan", scan.Name())
}

func TestLinearScanEmptyGrid(t *testing.T) {
	_, err := NewLinearScan(LinearScanConfig{Grid: [][]float64{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, &ConfigError{})
}

func TestLinearScanNextXIdempotent(t *testing.T) {
	scan, err := NewLinearScan(LinearScanConfig{Grid: Grid1D([]float64{1, 2})})
	require.NoError(t, err)

	policy := scan.Session()
	path := NewExePath()
	path.Append([]float64{1}, 1)

	first := policy.NextX(path)
	second := policy.NextX(path)
	assert.Equal(t, first, second)
	assert.Equal(t, []float64{2}, first)
}

func TestRunPropagatesFunctionError(t *testing.T) {
	scan, err := NewLinearScan(LinearScanConfig{Grid: Grid1D([]float64{1, 2, 3, 4})})
	require.NoError(t, err)

	boom := errors.New("sensor offline")
	calls := 0
	f := func(x []float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return x[0], nil
	}

	path, out, err := Run(scan, f)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, out)

	// Observations made before the failure stay on the returned path.
	assert.Equal(t, 2, path.Len())
	assert.Equal(t, 3, calls)
}

func TestLinearScanDescribeOmitsGrid(t *testing.T) {
	scan, err := NewLinearScan(LinearScanConfig{})
	require.NoError(t, err)

	desc := scan.Describe()
	assert.Contains(t, desc, "LinearScan")
	assert.Contains(t, desc, "n_grid=100")
	assert.NotContains(t, desc, "3.5")
}

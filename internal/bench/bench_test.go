package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadraticMinimum(t *testing.T) {
	y, err := Quadratic([]float64{10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, y)

	y, _ = Quadratic([]float64{12})
	assert.Equal(t, 4.0, y)
}

func TestLookupKnownNames(t *testing.T) {
	for _, name := range Names() {
		f, err := Lookup(name)
		require.NoError(t, err, name)
		require.NotNil(t, f, name)

		_, err = f([]float64{5.0})
		require.NoError(t, err, name)
	}
}

func TestLookupUnknownName(t *testing.T) {
	_, err := Lookup("does-not-exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, &NotFoundError{})
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestNoisyQuadraticReproducible(t *testing.T) {
	a := NoisyQuadratic(7, 0.1)
	b := NoisyQuadratic(7, 0.1)

	for i := 0; i < 5; i++ {
		ya, _ := a([]float64{4.0})
		yb, _ := b([]float64{4.0})
		assert.Equal(t, ya, yb)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

// Package bench provides named benchmark objective functions for driving
// algorithms from the CLI and server without caller-supplied code.
package bench

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/cwbudde/execpath/internal/alg"
)

// Quadratic is a bowl centered at x=10, minimal at 0. Its minimum sits
// inside the default scan range, so the default OptRightScan settings
// find it.
func Quadratic(x []float64) (float64, error) {
	d := x[0] - 10
	return d * d, nil
}

// Sine is a smooth multimodal objective over the default scan range.
func Sine(x []float64) (float64, error) {
	return math.Sin(x[0]) + 0.1*x[0], nil
}

// Step is piecewise constant, useful for exercising plateau behavior.
func Step(x []float64) (float64, error) {
	return math.Floor(x[0] / 5), nil
}

// NoisyQuadratic returns a fresh Quadratic with additive Gaussian noise.
// Each call to the constructor gets its own seeded source, so runs are
// reproducible per seed.
func NoisyQuadratic(seed int64, sigma float64) alg.Func {
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func(x []float64) (float64, error) {
		y, _ := Quadratic(x)
		mu.Lock()
		defer mu.Unlock()
		return y + sigma*rng.NormFloat64(), nil
	}
}

// NotFoundError reports an unknown benchmark function name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "unknown benchmark function: " + e.Name
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

var registry = map[string]alg.Func{
	"quadratic":       Quadratic,
	"sine":            Sine,
	"step":            Step,
	"noisy-quadratic": NoisyQuadratic(42, 0.05),
}

// Lookup returns the benchmark function registered under name.
func Lookup(name string) (alg.Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return f, nil
}

// Names returns the registered benchmark names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustLookup is Lookup for static names; it panics on unknown names.
func MustLookup(name string) alg.Func {
	f, err := Lookup(name)
	if err != nil {
		panic(fmt.Sprintf("bench: %v", err))
	}
	return f
}

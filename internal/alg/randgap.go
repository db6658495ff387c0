package alg

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// gridRandFactor bounds the per-run grid-size perturbation: a fresh run
// draws its point count uniformly from [ceil(0.8n), ceil(1.2n)).
const gridRandFactor = 0.2

// LinearScanRandGapConfig holds options for LinearScanRandGap.
type LinearScanRandGapConfig struct {
	// Name is used in diagnostics only.
	Name string

	// Grid is the original grid. Per run, a new evenly spaced grid is
	// generated over the same [min, max] span with a randomized point
	// count; the original is never modified. Defaults to the LinearScan
	// grid.
	Grid [][]float64

	// Seed seeds the per-run resampling for reproducibility. Zero uses
	// the shared global source.
	Seed int64
}

// DefaultLinearScanRandGapConfig returns the default options.
func DefaultLinearScanRandGapConfig() LinearScanRandGapConfig {
	return LinearScanRandGapConfig{
		Name: "LinearScanRandGap",
		Grid: Grid1D(Linspace(3.5, 20, 100)),
	}
}

// LinearScanRandGap behaves like LinearScan but regenerates its grid on
// every run with a randomly drawn gap size: the point count is resampled
// around the original count while the span is preserved. Non-determinism
// is confined to Session; the returned policy is deterministic.
type LinearScanRandGap struct {
	cfg LinearScanRandGapConfig

	mu  sync.Mutex
	rng *rand.Rand // nil means the global source
}

// NewLinearScanRandGap creates a LinearScanRandGap, filling unset
// options with defaults.
func NewLinearScanRandGap(cfg LinearScanRandGapConfig) (*LinearScanRandGap, error) {
	defaults := DefaultLinearScanRandGapConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Grid == nil {
		cfg.Grid = defaults.Grid
	}
	if len(cfg.Grid) == 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "Grid", Reason: "must not be empty"}
	}
	a := &LinearScanRandGap{cfg: cfg}
	if cfg.Seed != 0 {
		a.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return a, nil
}

func (a *LinearScanRandGap) Name() string { return a.cfg.Name }

// Session resamples a fresh grid for this run and returns a policy over
// it. The resampled grid lives only in the returned policy, so
// concurrent runs of one instance are independent.
func (a *LinearScanRandGap) Session() Policy {
	return &gridPolicy{
		grid:   a.Resample(),
		reduce: rawOutputs,
	}
}

// Resample generates the per-run grid: evenly spaced points over the
// original grid's [min, max] span, with a point count drawn uniformly
// from [ceil(0.8n), ceil(1.2n)) where n is the original count.
func (a *LinearScanRandGap) Resample() [][]float64 {
	n := float64(len(a.cfg.Grid))
	lo := int(math.Ceil((1 - gridRandFactor) * n))
	hi := int(math.Ceil((1 + gridRandFactor) * n))

	count := lo
	if hi > lo {
		count = lo + a.intn(hi-lo)
	}

	minX, maxX := gridSpan(a.cfg.Grid)
	return Grid1D(Linspace(minX, maxX, count))
}

func (a *LinearScanRandGap) intn(n int) int {
	if a.rng == nil {
		return rand.Intn(n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Intn(n)
}

func (a *LinearScanRandGap) Describe() string {
	return fmt.Sprintf("%s with n_grid=%d rand_factor=%g", a.cfg.Name, len(a.cfg.Grid), gridRandFactor)
}

// gridSpan returns the smallest and largest coordinate over all points.
func gridSpan(grid [][]float64) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, p := range grid {
		for _, v := range p {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

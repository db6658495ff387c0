package alg

import "fmt"

// LinearScanConfig holds options for LinearScan. A zero value takes the
// documented defaults via NewLinearScan.
type LinearScanConfig struct {
	// Name is used in diagnostics only.
	Name string

	// Grid is the predetermined ordered sequence of input points to
	// query. Defaults to 100 evenly spaced scalars in [3.5, 20], each
	// wrapped as a one-dimensional point.
	Grid [][]float64
}

// DefaultLinearScanConfig returns the default LinearScan options.
func DefaultLinearScanConfig() LinearScanConfig {
	return LinearScanConfig{
		Name: "LinearScan",
		Grid: Grid1D(Linspace(3.5, 20, 100)),
	}
}

// LinearScan scans a fixed grid on a one-dimensional domain and returns
// the function values observed at each grid point, in query order.
type LinearScan struct {
	cfg LinearScanConfig
}

// NewLinearScan creates a LinearScan, filling unset options with
// defaults.
func NewLinearScan(cfg LinearScanConfig) (*LinearScan, error) {
	defaults := DefaultLinearScanConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Grid == nil {
		cfg.Grid = defaults.Grid
	}
	if len(cfg.Grid) == 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "Grid", Reason: "must not be empty"}
	}
	return &LinearScan{cfg: cfg}, nil
}

func (a *LinearScan) Name() string { return a.cfg.Name }

// Grid returns the configured grid.
func (a *LinearScan) Grid() [][]float64 { return a.cfg.Grid }

// Session returns the run policy. LinearScan is deterministic, so every
// session walks the same configured grid.
func (a *LinearScan) Session() Policy {
	return &gridPolicy{
		grid:   a.cfg.Grid,
		reduce: rawOutputs,
	}
}

func (a *LinearScan) Describe() string {
	return fmt.Sprintf("%s with n_grid=%d", a.cfg.Name, len(a.cfg.Grid))
}

// rawOutputs is the scan reduction: the observed outputs, in query order.
func rawOutputs(path *ExePath) any {
	return path.Outputs()
}

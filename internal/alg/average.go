package alg

import "fmt"

// AverageOutputsConfig holds options for AverageOutputs.
type AverageOutputsConfig struct {
	// Name is used in diagnostics only.
	Name string

	// Points is the fixed set of input points to query. Defaults to six
	// scalar points clustered in two groups.
	Points [][]float64
}

// DefaultAverageOutputsConfig returns the default options.
func DefaultAverageOutputsConfig() AverageOutputsConfig {
	return AverageOutputsConfig{
		Name:   "AverageOutputs",
		Points: Grid1D([]float64{5.1, 5.3, 5.5, 20.1, 20.3, 20.5}),
	}
}

// AverageOutputs queries a fixed set of points and returns the
// arithmetic mean of the observed outputs as a single scalar.
type AverageOutputs struct {
	cfg AverageOutputsConfig
}

// NewAverageOutputs creates an AverageOutputs, filling unset options
// with defaults.
func NewAverageOutputs(cfg AverageOutputsConfig) (*AverageOutputs, error) {
	defaults := DefaultAverageOutputsConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Points == nil {
		cfg.Points = defaults.Points
	}
	if len(cfg.Points) == 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "Points", Reason: "must not be empty"}
	}
	return &AverageOutputs{cfg: cfg}, nil
}

func (a *AverageOutputs) Name() string { return a.cfg.Name }

// Session returns the run policy: the same index walk as LinearScan,
// reduced to a mean instead of the raw output sequence.
func (a *AverageOutputs) Session() Policy {
	return &gridPolicy{
		grid:   a.cfg.Points,
		reduce: meanOutput,
	}
}

func (a *AverageOutputs) Describe() string {
	return fmt.Sprintf("%s with n_points=%d", a.cfg.Name, len(a.cfg.Points))
}

func meanOutput(path *ExePath) any {
	sum := 0.0
	for _, y := range path.Y {
		sum += y
	}
	return sum / float64(path.Len())
}

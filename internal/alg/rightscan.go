package alg

import (
	"fmt"
	"math"
)

// OptRightScanConfig holds options for OptRightScan.
type OptRightScanConfig struct {
	// Name is used in diagnostics only.
	Name string

	// InitX is the first point queried. Defaults to [4.0].
	InitX []float64

	// StepGap is the fixed increment between consecutive queries.
	// Defaults to 0.1.
	StepGap float64

	// ConvThresh is the allowed rise above the best-observed output
	// before the scan stops. Defaults to 0.2.
	ConvThresh float64

	// MaxIter caps the number of steps regardless of convergence.
	// Defaults to 100.
	MaxIter int
}

// DefaultOptRightScanConfig returns the default options.
func DefaultOptRightScanConfig() OptRightScanConfig {
	return OptRightScanConfig{
		Name:       "OptRightScan",
		InitX:      []float64{4.0},
		StepGap:    0.1,
		ConvThresh: 0.2,
		MaxIter:    100,
	}
}

// OptRightScan is a greedy minimization heuristic: starting from the
// initial point it scans to the right in fixed steps until the function
// value rises more than ConvThresh above the best value seen, or the
// iteration cap is hit. It assumes the function decreases then increases
// near the initial point.
//
// The output is the last input point queried before stopping, an argmin
// approximation rather than the exact best point seen. Convergence and
// hitting the iteration cap both simply end the run; the two are not
// distinguished in the result.
type OptRightScan struct {
	cfg OptRightScanConfig
}

// NewOptRightScan creates an OptRightScan, filling unset options with
// defaults.
func NewOptRightScan(cfg OptRightScanConfig) (*OptRightScan, error) {
	defaults := DefaultOptRightScanConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.InitX == nil {
		cfg.InitX = defaults.InitX
	}
	if cfg.StepGap == 0 {
		cfg.StepGap = defaults.StepGap
	}
	if cfg.ConvThresh == 0 {
		cfg.ConvThresh = defaults.ConvThresh
	}
	if cfg.MaxIter == 0 {
		cfg.MaxIter = defaults.MaxIter
	}
	if len(cfg.InitX) == 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "InitX", Reason: "must not be empty"}
	}
	if cfg.StepGap < 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "StepGap", Reason: "must not be negative"}
	}
	if cfg.ConvThresh < 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "ConvThresh", Reason: "must not be negative"}
	}
	if cfg.MaxIter < 0 {
		return nil, &ConfigError{Algorithm: cfg.Name, Field: "MaxIter", Reason: "must not be negative"}
	}
	return &OptRightScan{cfg: cfg}, nil
}

func (a *OptRightScan) Name() string { return a.cfg.Name }

// Session returns the run policy. OptRightScan keeps no per-run state
// beyond the path itself, so the algorithm doubles as its own policy.
func (a *OptRightScan) Session() Policy {
	return &rightScanPolicy{cfg: a.cfg}
}

func (a *OptRightScan) Describe() string {
	return fmt.Sprintf("%s with init_x=%v step_gap=%g conv_thresh=%g max_iter=%d",
		a.cfg.Name, a.cfg.InitX, a.cfg.StepGap, a.cfg.ConvThresh, a.cfg.MaxIter)
}

type rightScanPolicy struct {
	cfg OptRightScanConfig
}

func (p *rightScanPolicy) NextX(path *ExePath) []float64 {
	n := path.Len()

	var next []float64
	if n == 0 {
		next = p.cfg.InitX
	} else {
		last := path.LastX()
		next = []float64{last[0] + p.cfg.StepGap}
	}

	// Converged once the latest output rises more than ConvThresh above
	// the best of all prior outputs. Needs at least two observations.
	if n >= 2 {
		best := math.Inf(1)
		for _, y := range path.Y[:n-1] {
			if y < best {
				best = y
			}
		}
		if path.Y[n-1] > best+p.cfg.ConvThresh {
			next = nil
		}
	}

	if n > p.cfg.MaxIter {
		next = nil
	}

	return next
}

// Output returns the last queried input point.
func (p *rightScanPolicy) Output(path *ExePath) any {
	return path.LastX()
}

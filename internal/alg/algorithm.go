package alg

import "fmt"

// Func is the function an algorithm queries: one input vector in, one
// scalar out. Implementations may be expensive or impure; the run loop
// never re-queries a point and never retries a failed evaluation.
type Func func(x []float64) (float64, error)

// Policy drives a single run. NextX proposes the next input to query
// given the path so far, or returns nil to stop. Output reduces the
// completed path to the algorithm's result. Both must be pure with
// respect to the path argument: calling NextX twice with the same path
// returns the same point.
type Policy interface {
	// NextX returns the next input point, or nil when the run is complete.
	NextX(path *ExePath) []float64

	// Output computes the algorithm output from a completed path.
	// The concrete type varies per algorithm: []float64 of observed
	// outputs for the scan algorithms, float64 for AverageOutputs, and
	// the final input point ([]float64) for OptRightScan.
	Output(path *ExePath) any
}

// Algorithm is a configured, reusable strategy. Session materializes the
// policy for one run; stochastic algorithms resample their per-run state
// here, so concurrent Run calls on one instance never share mutable
// state. Deterministic algorithms may return a shared read-only policy.
type Algorithm interface {
	Name() string
	Session() Policy

	// Describe returns a diagnostic string naming the algorithm and its
	// scalar settings. Large grids are summarized, not printed.
	Describe() string
}

// Run drives alg against f until the policy stops, returning the
// execution path and the algorithm output.
//
// Termination is entirely the policy's responsibility: the loop imposes
// no global step cap, and a policy that never returns nil runs forever.
// Errors from f abort the run and are returned unchanged, together with
// the partially built path for callers that want the observations made
// before the failure.
func Run(alg Algorithm, f Func) (*ExePath, any, error) {
	policy := alg.Session()
	path := NewExePath()

	for x := policy.NextX(path); x != nil; x = policy.NextX(path) {
		y, err := f(x)
		if err != nil {
			return path, nil, err
		}
		path.Append(x, y)
	}

	return path, policy.Output(path), nil
}

// ConfigError reports a semantically invalid algorithm option, surfaced
// at configure time rather than during a run.
// Use errors.Is(err, &ConfigError{}) to check for this error.
type ConfigError struct {
	Algorithm string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s config: %s %s", e.Algorithm, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// gridPolicy walks a fixed ordered grid by path length and applies a
// reduction to the completed path. LinearScan, LinearScanRandGap and
// AverageOutputs all share this traversal; they differ only in how the
// grid is produced and how the path is reduced.
type gridPolicy struct {
	grid   [][]float64
	reduce func(path *ExePath) any
}

func (g *gridPolicy) NextX(path *ExePath) []float64 {
	i := path.Len()
	if i >= len(g.grid) {
		return nil
	}
	return g.grid[i]
}

func (g *gridPolicy) Output(path *ExePath) any {
	return g.reduce(path)
}

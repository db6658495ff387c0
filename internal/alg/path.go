package alg

import "fmt"

// ExePath is the ordered record of (input, output) pairs produced by one
// run of an algorithm against a function. It is append-only during a run:
// every query appends exactly one input vector and its scalar output.
type ExePath struct {
	X [][]float64 `json:"x"`
	Y []float64   `json:"y"`
}

// NewExePath creates an empty execution path.
func NewExePath() *ExePath {
	return &ExePath{}
}

// Append records one observed (input, output) pair.
func (p *ExePath) Append(x []float64, y float64) {
	p.X = append(p.X, x)
	p.Y = append(p.Y, y)
}

// Len returns the number of completed steps on the path.
func (p *ExePath) Len() int {
	return len(p.X)
}

// LastX returns the most recently queried input point, or nil for an
// empty path.
func (p *ExePath) LastX() []float64 {
	if len(p.X) == 0 {
		return nil
	}
	return p.X[len(p.X)-1]
}

// Outputs returns a copy of the observed outputs in query order.
func (p *ExePath) Outputs() []float64 {
	out := make([]float64, len(p.Y))
	copy(out, p.Y)
	return out
}

func (p *ExePath) String() string {
	return fmt.Sprintf("ExePath(len=%d)", p.Len())
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
// n=1 returns [lo].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Grid1D wraps each scalar as a one-dimensional input point.
func Grid1D(xs []float64) [][]float64 {
	grid := make([][]float64, len(xs))
	for i, x := range xs {
		grid[i] = []float64{x}
	}
	return grid
}

package store

import (
	"time"

	"github.com/cwbudde/execpath/internal/alg"
)

// RunConfig holds the configuration of an algorithm run. It lives here
// rather than in the server package to avoid import cycles; both the CLI
// and the server build algorithm instances from it.
//
// Only the fields relevant to the chosen algorithm are consulted; the
// rest are ignored. Zero-valued fields take the algorithm's documented
// defaults.
type RunConfig struct {
	// Algorithm selects the strategy: linear-scan, linear-scan-rand-gap,
	// average-outputs, or opt-right-scan.
	Algorithm string `json:"algorithm"`

	// Function names the benchmark objective to query.
	Function string `json:"function"`

	// Grid options (linear-scan, linear-scan-rand-gap).
	GridMin  float64 `json:"gridMin,omitempty"`
	GridMax  float64 `json:"gridMax,omitempty"`
	GridSize int     `json:"gridSize,omitempty"`

	// Seed seeds grid resampling (linear-scan-rand-gap). Zero means
	// unseeded.
	Seed int64 `json:"seed,omitempty"`

	// Points holds the query set (average-outputs).
	Points []float64 `json:"points,omitempty"`

	// Right-scan options (opt-right-scan).
	InitX      float64 `json:"initX,omitempty"`
	StepGap    float64 `json:"stepGap,omitempty"`
	ConvThresh float64 `json:"convThresh,omitempty"`
	MaxIter    int     `json:"maxIter,omitempty"`
}

// RunRecord is a persisted completed run: the configuration that
// produced it, the full execution path, and the algorithm output.
//
// Output is the algorithm's declared result and its JSON shape varies
// per algorithm: an array of observed outputs for the scan algorithms,
// a single number for average-outputs, and the final input point for
// opt-right-scan. Readers that need the concrete type should switch on
// Algorithm.
type RunRecord struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"runId"`

	// Algorithm is the algorithm name as reported by the instance.
	Algorithm string `json:"algorithm"`

	// Config is the configuration the run was started with, kept for
	// reproducing the run.
	Config RunConfig `json:"config"`

	// Path is the complete execution path: every input queried and
	// every output observed, in order.
	Path *alg.ExePath `json:"path"`

	// Output is the algorithm's reduction of the path.
	Output any `json:"output"`

	// Steps is the number of function evaluations made.
	Steps int `json:"steps"`

	// StartTime and EndTime bracket the run.
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// RunInfo contains metadata about a run without the full path data.
// Used for listing runs efficiently.
type RunInfo struct {
	RunID     string    `json:"runId"`
	Algorithm string    `json:"algorithm"`
	Function  string    `json:"function"`
	Steps     int       `json:"steps"`
	StartTime time.Time `json:"startTime"`
}

// NewRunRecord assembles a record from the pieces of a finished run.
func NewRunRecord(runID string, algName string, config RunConfig, path *alg.ExePath, output any, start, end time.Time) *RunRecord {
	return &RunRecord{
		RunID:     runID,
		Algorithm: algName,
		Config:    config,
		Path:      path,
		Output:    output,
		Steps:     path.Len(),
		StartTime: start,
		EndTime:   end,
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:     r.RunID,
		Algorithm: r.Algorithm,
		Function:  r.Config.Function,
		Steps:     r.Steps,
		StartTime: r.StartTime,
	}
}

// Validate checks that the record is internally consistent.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Algorithm == "" {
		return &ValidationError{Field: "Algorithm", Reason: "cannot be empty"}
	}
	if r.Path == nil {
		return &ValidationError{Field: "Path", Reason: "cannot be nil"}
	}
	if len(r.Path.X) != len(r.Path.Y) {
		return &ValidationError{Field: "Path", Reason: "inputs and outputs must have equal length"}
	}
	if r.Steps != r.Path.Len() {
		return &ValidationError{Field: "Steps", Reason: "must equal path length"}
	}
	if r.StartTime.IsZero() {
		return &ValidationError{Field: "StartTime", Reason: "cannot be zero"}
	}
	if r.EndTime.Before(r.StartTime) {
		return &ValidationError{Field: "EndTime", Reason: "cannot precede StartTime"}
	}
	return nil
}

// ValidationError represents a run-record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

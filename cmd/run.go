package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cwbudde/execpath/internal/alg"
	"github.com/cwbudde/execpath/internal/bench"
	"github.com/cwbudde/execpath/internal/server"
	"github.com/cwbudde/execpath/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	algName    string
	funcName   string
	gridMin    float64
	gridMax    float64
	gridSize   int
	points     []float64
	initX      float64
	stepGap    float64
	convThresh float64
	maxIter    int
	seed       int64
	dataDir    string
	saveRun    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single algorithm against a benchmark function",
	Long: `Executes one algorithm run: the algorithm proposes query points one at a
time, the benchmark function is evaluated at each, and the resulting
execution path and output are printed (and optionally persisted).`,
	RunE: runAlgorithm,
}

func init() {
	runCmd.Flags().StringVar(&algName, "algorithm", server.AlgLinearScan,
		fmt.Sprintf("Algorithm (%s)", strings.Join(server.AlgorithmNames(), ", ")))
	runCmd.Flags().StringVar(&funcName, "function", "quadratic",
		fmt.Sprintf("Benchmark function (%s)", strings.Join(bench.Names(), ", ")))
	runCmd.Flags().Float64Var(&gridMin, "grid-min", 0, "Grid lower bound (scan algorithms)")
	runCmd.Flags().Float64Var(&gridMax, "grid-max", 0, "Grid upper bound (scan algorithms)")
	runCmd.Flags().IntVar(&gridSize, "grid-size", 0, "Grid point count (scan algorithms)")
	runCmd.Flags().Float64SliceVar(&points, "points", nil, "Query points (average-outputs)")
	runCmd.Flags().Float64Var(&initX, "init-x", 0, "Initial point (opt-right-scan)")
	runCmd.Flags().Float64Var(&stepGap, "step-gap", 0, "Step gap (opt-right-scan)")
	runCmd.Flags().Float64Var(&convThresh, "conv-thresh", 0, "Convergence threshold (opt-right-scan)")
	runCmd.Flags().IntVar(&maxIter, "max-iter", 0, "Max iterations (opt-right-scan)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed (linear-scan-rand-gap)")
	runCmd.Flags().StringVar(&dataDir, "data", "./data", "Data directory for persisted runs")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "Persist the run record and step trace")

	rootCmd.AddCommand(runCmd)
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	config := store.RunConfig{
		Algorithm:  algName,
		Function:   funcName,
		GridMin:    gridMin,
		GridMax:    gridMax,
		GridSize:   gridSize,
		Points:     points,
		InitX:      initX,
		StepGap:    stepGap,
		ConvThresh: convThresh,
		MaxIter:    maxIter,
		Seed:       seed,
	}

	f, err := bench.Lookup(funcName)
	if err != nil {
		return err
	}

	algorithm, err := server.BuildAlgorithm(config)
	if err != nil {
		return fmt.Errorf("failed to build algorithm: %w", err)
	}

	slog.Info("Starting run", "algorithm", algorithm.Describe(), "function", funcName)

	start := time.Now()
	path, output, err := alg.Run(algorithm, f)
	if err != nil {
		return fmt.Errorf("run aborted after %d steps: %w", path.Len(), err)
	}
	elapsed := time.Since(start)

	slog.Info("Run complete",
		"algorithm", algorithm.Name(),
		"steps", path.Len(),
		"elapsed", elapsed,
	)

	fmt.Printf("%s on %s: %d steps in %s\n", algorithm.Name(), funcName, path.Len(), elapsed)
	fmt.Printf("output: %v\n", output)

	if saveRun {
		runID := uuid.New().String()

		fsStore, err := store.NewFSStore(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		record := store.NewRunRecord(runID, algorithm.Name(), config, path, output, start, start.Add(elapsed))
		if err := fsStore.SaveRun(runID, record); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		trace, err := store.NewTraceWriter(dataDir, runID, false)
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		for i := range path.X {
			if err := trace.Write(store.TraceEntry{Step: i, X: path.X[i], Y: path.Y[i], Timestamp: start}); err != nil {
				trace.Close()
				return fmt.Errorf("failed to write trace: %w", err)
			}
		}
		if err := trace.Close(); err != nil {
			return fmt.Errorf("failed to close trace: %w", err)
		}

		fmt.Printf("saved run %s\n", runID)
	}

	return nil
}

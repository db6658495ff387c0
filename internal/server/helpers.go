package server

import (
	"fmt"

	"github.com/cwbudde/execpath/internal/alg"
	"github.com/cwbudde/execpath/internal/store"
)

// Algorithm names accepted in a RunConfig.
const (
	AlgLinearScan        = "linear-scan"
	AlgLinearScanRandGap = "linear-scan-rand-gap"
	AlgAverageOutputs    = "average-outputs"
	AlgOptRightScan      = "opt-right-scan"
)

// AlgorithmNames lists the accepted algorithm names.
func AlgorithmNames() []string {
	return []string{AlgLinearScan, AlgLinearScanRandGap, AlgAverageOutputs, AlgOptRightScan}
}

// BuildAlgorithm constructs an algorithm instance from a run config.
// Zero-valued options take the algorithm's documented defaults.
func BuildAlgorithm(cfg store.RunConfig) (alg.Algorithm, error) {
	switch cfg.Algorithm {
	case AlgLinearScan:
		return alg.NewLinearScan(alg.LinearScanConfig{Grid: gridFromConfig(cfg)})

	case AlgLinearScanRandGap:
		return alg.NewLinearScanRandGap(alg.LinearScanRandGapConfig{
			Grid: gridFromConfig(cfg),
			Seed: cfg.Seed,
		})

	case AlgAverageOutputs:
		var points [][]float64
		if len(cfg.Points) > 0 {
			points = alg.Grid1D(cfg.Points)
		}
		return alg.NewAverageOutputs(alg.AverageOutputsConfig{Points: points})

	case AlgOptRightScan:
		rsCfg := alg.OptRightScanConfig{
			StepGap:    cfg.StepGap,
			ConvThresh: cfg.ConvThresh,
			MaxIter:    cfg.MaxIter,
		}
		if cfg.InitX != 0 {
			rsCfg.InitX = []float64{cfg.InitX}
		}
		return alg.NewOptRightScan(rsCfg)

	default:
		return nil, fmt.Errorf("unknown algorithm: %q", cfg.Algorithm)
	}
}

// gridFromConfig builds an explicit grid when any grid option was set,
// or returns nil to use the algorithm defaults.
func gridFromConfig(cfg store.RunConfig) [][]float64 {
	if cfg.GridSize == 0 && cfg.GridMin == 0 && cfg.GridMax == 0 {
		return nil
	}

	min, max, size := cfg.GridMin, cfg.GridMax, cfg.GridSize
	if size == 0 {
		size = 100
	}
	if min == 0 && max == 0 {
		min, max = 3.5, 20
	}
	return alg.Grid1D(alg.Linspace(min, max, size))
}

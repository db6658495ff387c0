package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cwbudde/execpath/internal/alg"
	"github.com/cwbudde/execpath/internal/bench"
	"github.com/cwbudde/execpath/internal/store"
)

// progressTracker keeps the running best output and step count for a
// job. It feeds the SSE progress events while the run loop is active.
type progressTracker struct {
	steps int
	bestY float64
}

func newProgressTracker() *progressTracker {
	return &progressTracker{bestY: math.Inf(1)}
}

// Observe records one function evaluation and returns the current best.
func (p *progressTracker) Observe(y float64) float64 {
	p.steps++
	if y < p.bestY {
		p.bestY = y
	}
	return p.bestY
}

// runJob executes an algorithm run in the background.
// If runStore is not nil, the completed run record is persisted; if
// traceDir is non-empty, every query step is appended to the run's
// trace.jsonl as it happens.
func runJob(ctx context.Context, jm *JobManager, runStore store.Store, traceDir, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "algorithm", job.Config.Algorithm, "function", job.Config.Function)

	f, err := bench.Lookup(job.Config.Function)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	algorithm, err := BuildAlgorithm(job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	var trace *store.TraceWriter
	if traceDir != "" {
		trace, err = store.NewTraceWriter(traceDir, jobID, false)
		if err != nil {
			markJobFailed(jm, jobID, fmt.Errorf("failed to open trace: %w", err))
			return err
		}
		defer trace.Close()
	}

	// The run loop itself is synchronous and has no cancellation hook,
	// so cancellation is observed at the function boundary: a cancelled
	// context aborts the run as a failed evaluation.
	tracker := newProgressTracker()
	start := time.Now()

	instrumented := func(x []float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		y, err := f(x)
		if err != nil {
			return 0, err
		}

		best := tracker.Observe(y)
		step := tracker.steps - 1

		if trace != nil {
			if err := trace.Write(store.TraceEntry{Step: step, X: x, Y: y, Timestamp: time.Now()}); err != nil {
				slog.Warn("Failed to write trace entry", "job_id", jobID, "error", err)
			}
		}

		jm.UpdateJob(jobID, func(j *Job) {
			j.Steps = step + 1
			j.LastX = x
			j.BestY = best
		})

		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:     jobID,
			State:     StateRunning,
			Step:      step,
			LastY:     y,
			BestY:     best,
			Timestamp: time.Now(),
		})

		return y, nil
	}

	path, output, runErr := alg.Run(algorithm, instrumented)
	elapsed := time.Since(start)

	if trace != nil {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "job_id", jobID, "error", err)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			markJobCancelled(jm, jobID)
			return runErr
		}
		markJobFailed(jm, jobID, runErr)
		return runErr
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Steps = path.Len()
		j.Output = output
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	if runStore != nil {
		record := store.NewRunRecord(jobID, algorithm.Name(), job.Config, path, output, start, endTime)
		if err := runStore.SaveRun(jobID, record); err != nil {
			slog.Error("Failed to persist run", "job_id", jobID, "error", err)
		}
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"steps", path.Len(),
		"best_y", tracker.bestY,
	)

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		Step:      path.Len(),
		BestY:     tracker.bestY,
		Timestamp: time.Now(),
	})

	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}

package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/execpath/internal/alg"
)

// setupTestStore creates a temporary directory and returns an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	return store, tempDir
}

// createTestRecord creates a run record with test data.
func createTestRecord(runID string) *RunRecord {
	path := alg.NewExePath()
	path.Append([]float64{4.0}, 36.0)
	path.Append([]float64{4.1}, 34.81)
	path.Append([]float64{4.2}, 33.64)

	start := time.Now().Add(-time.Second)
	return NewRunRecord(runID, "OptRightScan", RunConfig{
		Algorithm: "opt-right-scan",
		Function:  "quadratic",
		InitX:     4.0,
		StepGap:   0.1,
	}, path, []float64{4.2}, start, time.Now())
}

func TestNewFSStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	if store == nil {
		t.Fatal("Expected non-nil store")
	}

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Fatal("Base directory was not created")
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	store, tempDir := setupTestStore(t)

	runID := "test-run-123"
	record := createTestRecord(runID)

	if err := store.SaveRun(runID, record); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	// Verify file exists on disk
	recordPath := filepath.Join(tempDir, "runs", runID, "run.json")
	if _, err := os.Stat(recordPath); os.IsNotExist(err) {
		t.Fatalf("Record file not created: %s", recordPath)
	}

	loaded, err := store.LoadRun(runID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}

	if loaded.RunID != runID {
		t.Errorf("Expected RunID %q, got %q", runID, loaded.RunID)
	}
	if loaded.Algorithm != "OptRightScan" {
		t.Errorf("Expected algorithm OptRightScan, got %q", loaded.Algorithm)
	}
	if loaded.Steps != 3 {
		t.Errorf("Expected 3 steps, got %d", loaded.Steps)
	}
	if loaded.Path.Len() != 3 {
		t.Errorf("Expected path length 3, got %d", loaded.Path.Len())
	}
	if loaded.Path.Y[1] != 34.81 {
		t.Errorf("Expected second output 34.81, got %v", loaded.Path.Y[1])
	}
}

func TestSaveRunOverwrites(t *testing.T) {
	store, _ := setupTestStore(t)

	runID := "test-run-overwrite"
	first := createTestRecord(runID)
	if err := store.SaveRun(runID, first); err != nil {
		t.Fatalf("First SaveRun failed: %v", err)
	}

	second := createTestRecord(runID)
	second.Algorithm = "LinearScan"
	second.Config.Algorithm = "linear-scan"
	if err := store.SaveRun(runID, second); err != nil {
		t.Fatalf("Second SaveRun failed: %v", err)
	}

	loaded, err := store.LoadRun(runID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded.Algorithm != "LinearScan" {
		t.Errorf("Expected overwritten algorithm LinearScan, got %q", loaded.Algorithm)
	}
}

func TestSaveRunInvalidRecord(t *testing.T) {
	store, _ := setupTestStore(t)

	record := createTestRecord("bad-steps")
	record.Steps = 99

	if err := store.SaveRun("bad-steps", record); err == nil {
		t.Fatal("Expected validation error for mismatched step count")
	}
}

func TestLoadRunNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.LoadRun("nonexistent")
	if err == nil {
		t.Fatal("Expected error for missing run")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	store, _ := setupTestStore(t)

	// Empty store lists no runs
	infos, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected 0 runs, got %d", len(infos))
	}

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.SaveRun(id, createTestRecord(id)); err != nil {
			t.Fatalf("SaveRun %s failed: %v", id, err)
		}
	}

	infos, err = store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(infos) != 3 {
		t.Errorf("Expected 3 runs, got %d", len(infos))
	}

	for _, info := range infos {
		if info.Function != "quadratic" {
			t.Errorf("Expected function quadratic, got %q", info.Function)
		}
		if info.Steps != 3 {
			t.Errorf("Expected 3 steps, got %d", info.Steps)
		}
	}
}

func TestDeleteRun(t *testing.T) {
	store, tempDir := setupTestStore(t)

	runID := "test-run-delete"
	if err := store.SaveRun(runID, createTestRecord(runID)); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	if err := store.DeleteRun(runID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "runs", runID)); !os.IsNotExist(err) {
		t.Error("Run directory still exists after delete")
	}

	if err := store.DeleteRun(runID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRunRecordValidate(t *testing.T) {
	record := createTestRecord("valid")
	if err := record.Validate(); err != nil {
		t.Fatalf("Expected valid record, got %v", err)
	}

	record = createTestRecord("no-id")
	record.RunID = ""
	if err := record.Validate(); err == nil {
		t.Error("Expected error for empty RunID")
	}

	record = createTestRecord("nil-path")
	record.Path = nil
	if err := record.Validate(); err == nil {
		t.Error("Expected error for nil path")
	}

	record = createTestRecord("bad-times")
	record.EndTime = record.StartTime.Add(-time.Minute)
	if err := record.Validate(); err == nil {
		t.Error("Expected error for EndTime before StartTime")
	}
}

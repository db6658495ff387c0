package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	s, err := NewServer(":0", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

func TestServer_CreateJob(t *testing.T) {
	s := newTestServer(t)

	config := JobConfig{
		Algorithm: AlgLinearScan,
		Function:  "quadratic",
		GridSize:  10,
	}

	body, _ := json.Marshal(config)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}

	// State should be pending or running (since worker starts immediately)
	if job.State != StatePending && job.State != StateRunning && job.State != StateCompleted {
		t.Errorf("Unexpected state %s", job.State)
	}
}

func TestServer_CreateJobValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		config JobConfig
	}{
		{"missing algorithm", JobConfig{Function: "quadratic"}},
		{"missing function", JobConfig{Algorithm: AlgLinearScan}},
		{"unknown algorithm", JobConfig{Algorithm: "secant", Function: "quadratic"}},
		{"unknown function", JobConfig{Algorithm: AlgLinearScan, Function: "mystery"}},
		{"bad right-scan config", JobConfig{Algorithm: AlgOptRightScan, Function: "quadratic", MaxIter: -3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.config)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
			w := httptest.NewRecorder()

			s.handleCreateJob(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestServer_GetJobStatus(t *testing.T) {
	s := newTestServer(t)

	job := s.jobManager.CreateJob(JobConfig{Algorithm: AlgLinearScan, Function: "sine"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["id"] != job.ID {
		t.Errorf("Expected id %s, got %v", job.ID, response["id"])
	}
	if response["state"] != string(StatePending) {
		t.Errorf("Expected pending state, got %v", response["state"])
	}
}

func TestServer_GetJobStatusNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nonexistent", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_ListJobs(t *testing.T) {
	s := newTestServer(t)

	s.jobManager.CreateJob(JobConfig{Algorithm: AlgLinearScan, Function: "sine"})
	s.jobManager.CreateJob(JobConfig{Algorithm: AlgOptRightScan, Function: "quadratic"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	s.handleJobs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var jobs []Job
	if err := json.NewDecoder(w.Body).Decode(&jobs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(jobs))
	}
}

func TestServer_GetJobPath(t *testing.T) {
	s := newTestServer(t)

	// Run a job to completion so a record exists
	body, _ := json.Marshal(JobConfig{Algorithm: AlgAverageOutputs, Function: "quadratic"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.handleCreateJob(w, req)

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Wait for the background worker to finish and persist the record
	deadline := time.Now().Add(2 * time.Second)
	for {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/path", nil)
		w = httptest.NewRecorder()
		s.handleJobsWithID(w, req)

		if w.Code == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Run record never appeared, last status %d: %s", w.Code, w.Body.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	var record map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if record["runId"] != job.ID {
		t.Errorf("Expected runId %s, got %v", job.ID, record["runId"])
	}
}

func TestServer_CancelUnknownJob(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/nonexistent", nil)
	w := httptest.NewRecorder()
	s.handleJobsWithID(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_ListFunctionsAndAlgorithms(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/functions", nil)
	w := httptest.NewRecorder()
	s.handleFunctions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var names []string
	if err := json.NewDecoder(w.Body).Decode(&names); err != nil {
		t.Fatalf("Failed to decode functions: %v", err)
	}
	if len(names) == 0 {
		t.Error("Expected at least one function")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/algorithms", nil)
	w = httptest.NewRecorder()
	s.handleAlgorithms(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if err := json.NewDecoder(w.Body).Decode(&names); err != nil {
		t.Fatalf("Failed to decode algorithms: %v", err)
	}
	if len(names) != 4 {
		t.Errorf("Expected 4 algorithms, got %d", len(names))
	}
}

package pdfleaf

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Fake API server
// ---------------------------------------------------------------------------

// fakeAPI serves the conversion endpoints from canned values and records
// what the client sent.
type fakeAPI struct {
	mu sync.Mutex

	jobID    string
	statuses []JobStatus // served in order, last one repeats
	pdf      []byte

	submitStatus int         // 0 means 200
	submitBody   string      // raw response override
	statusErr    map[int]int // poll number (1-based) -> HTTP status to fail with

	submitCalls   int
	statusCalls   int
	downloadCalls int
	lastBody      []byte
	lastHeader    http.Header
	statusJobIDs  []string
}

func newFakeAPI(jobID string, statuses ...JobStatus) *fakeAPI {
	return &fakeAPI{
		jobID:    jobID,
		statuses: statuses,
		pdf:      []byte("%PDF-1.4 fake"),
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/convert", f.handleSubmit)
	mux.HandleFunc("GET /api/v1/jobs/{id}", f.handleStatus)
	mux.HandleFunc("GET /api/v1/jobs/{id}/download", f.handleDownload)
	return mux
}

func (f *fakeAPI) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.submitCalls++
	f.lastBody = body
	f.lastHeader = r.Header.Clone()
	status := f.submitStatus
	override := f.submitBody
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	if override != "" {
		_, _ = io.WriteString(w, override)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"job_id": f.jobID, "status": "pending"})
}

func (f *fakeAPI) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.statusCalls++
	n := f.statusCalls
	f.statusJobIDs = append(f.statusJobIDs, r.PathValue("id"))
	failWith := f.statusErr[n]
	var st JobStatus
	if len(f.statuses) > 0 {
		st = f.statuses[min(n, len(f.statuses))-1]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failWith != 0 {
		w.WriteHeader(failWith)
		_, _ = io.WriteString(w, `{"detail":"status unavailable"}`)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

func (f *fakeAPI) handleDownload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.downloadCalls++
	pdf := f.pdf
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(pdf)
}

func (f *fakeAPI) counts() (submit, status, download int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls, f.statusCalls, f.downloadCalls
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testAPIKey = "pk_test_123"

// newTestClient starts srv and returns a client pointed at it.
func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	c, err := NewClient(testAPIKey, opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func int64Ptr(v int64) *int64 {
	return &v
}

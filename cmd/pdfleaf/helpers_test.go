package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Fake conversion service
// ---------------------------------------------------------------------------

const testAPIKey = "pk_test_cli"

// fakeService completes every job on its first poll, unless failMsg is set,
// and keeps webhooks in memory.
type fakeService struct {
	mu sync.Mutex

	failMsg   string // non-empty makes every job end "failed"
	submitErr int    // non-zero answers POST /convert with this status
	pending   bool   // jobs never leave "processing"

	nextJob     int
	submits     []map[string]any
	statusCalls int
	downloads   []string
	webhooks    []map[string]any
	deleted     []string
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/convert", f.handleSubmit)
	mux.HandleFunc("GET /api/v1/jobs/{id}", f.handleStatus)
	mux.HandleFunc("GET /api/v1/jobs/{id}/download", f.handleDownload)
	mux.HandleFunc("POST /api/v1/webhooks", f.handleCreateWebhook)
	mux.HandleFunc("GET /api/v1/webhooks", f.handleListWebhooks)
	mux.HandleFunc("DELETE /api/v1/webhooks/{id}", f.handleDeleteWebhook)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
			writeTestJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid API key"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeService) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.nextJob++
	id := fmt.Sprintf("job-%d", f.nextJob)
	f.submits = append(f.submits, body)
	status := f.submitErr
	f.mu.Unlock()

	if status != 0 {
		writeTestJSON(w, status, map[string]any{"detail": "Rate limit exceeded"})
		return
	}
	writeTestJSON(w, http.StatusOK, map[string]any{
		"job_id": id,
		"status": "pending",
		"quota":  map[string]any{"used": 3, "limit": 100, "remaining": 97},
	})
}

func (f *fakeService) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	f.statusCalls++
	failMsg, pending := f.failMsg, f.pending
	f.mu.Unlock()

	switch {
	case !strings.HasPrefix(id, "job-"):
		writeTestJSON(w, http.StatusNotFound, map[string]any{"detail": "Job not found"})
	case pending:
		writeTestJSON(w, http.StatusOK, map[string]any{"status": "processing"})
	case failMsg != "":
		writeTestJSON(w, http.StatusOK, map[string]any{"status": "failed", "error": failMsg})
	default:
		writeTestJSON(w, http.StatusOK, map[string]any{"status": "completed", "size": len(fakePDF(id))})
	}
}

func (f *fakeService) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !strings.HasPrefix(id, "job-") {
		writeTestJSON(w, http.StatusNotFound, map[string]any{"detail": "Job not found"})
		return
	}

	f.mu.Lock()
	f.downloads = append(f.downloads, id)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/pdf")
	_, _ = io.WriteString(w, fakePDF(id))
}

func (f *fakeService) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	wh := map[string]any{
		"id":         fmt.Sprintf("wh_%d", len(f.webhooks)+1),
		"url":        body["url"],
		"secret":     "whsec_test",
		"events":     body["events"],
		"is_active":  true,
		"created_at": "2026-01-02T03:04:05Z",
	}
	f.webhooks = append(f.webhooks, wh)
	f.mu.Unlock()

	writeTestJSON(w, http.StatusOK, wh)
}

func (f *fakeService) handleListWebhooks(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	hooks := append([]map[string]any(nil), f.webhooks...)
	f.mu.Unlock()

	if hooks == nil {
		hooks = []map[string]any{}
	}
	writeTestJSON(w, http.StatusOK, hooks)
}

func (f *fakeService) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, wh := range f.webhooks {
		if wh["id"] == id {
			f.webhooks = append(f.webhooks[:i], f.webhooks[i+1:]...)
			f.deleted = append(f.deleted, id)
			writeTestJSON(w, http.StatusOK, map[string]any{"message": "Webhook deleted"})
			return
		}
	}
	writeTestJSON(w, http.StatusNotFound, map[string]any{"detail": "Webhook not found"})
}

func (f *fakeService) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

// submit returns the i-th decoded submit body.
func (f *fakeService) submit(i int) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits[i]
}

func fakePDF(jobID string) string {
	return "%PDF-1.4 " + jobID
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// startService serves f and returns its URL.
func startService(t *testing.T, f *fakeService) string {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// testEnv returns an Environment with captured output and the given stdin.
func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Environment{
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout:    stdout,
		Stderr:    stderr,
		Stdin:     strings.NewReader(stdin),
		NewClient: newPDFLeafClient,
	}, stdout, stderr
}

// apiArgs returns the connection flags pointing at baseURL.
func apiArgs(baseURL string) []string {
	return []string{"--api-key", testAPIKey, "--base-url", baseURL}
}

// cli builds os.Args-style arguments.
func cli(args ...string) []string {
	return append([]string{"pdfleaf"}, args...)
}

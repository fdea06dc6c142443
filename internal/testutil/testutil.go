package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// MockHTTPServer serves canned responses keyed by path (optionally with query)
// and records every request it receives.
type MockHTTPServer struct {
	*httptest.Server

	mu        sync.Mutex
	Responses map[string]MockResponse
	hits      map[string]int
	requests  []*http.Request
}

// MockResponse represents a canned HTTP response
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// NewMockHTTPServer creates a new mock HTTP server. Unknown paths return 404.
func NewMockHTTPServer() *MockHTTPServer {
	ms := &MockHTTPServer{
		Responses: make(map[string]MockResponse),
		hits:      make(map[string]int),
	}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}

		ms.mu.Lock()
		ms.hits[r.URL.Path]++
		ms.requests = append(ms.requests, r.Clone(r.Context()))
		resp, ok := ms.Responses[key]
		if !ok {
			// Try without query parameters
			resp, ok = ms.Responses[r.URL.Path]
		}
		ms.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, "No mock response configured for %s", key)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		code := resp.StatusCode
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		_, _ = fmt.Fprint(w, resp.Body)
	}))

	return ms
}

// AddResponse adds a canned response for a specific path
func (ms *MockHTTPServer) AddResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.Responses[path] = response
}

// AddJSONResponse adds a JSON response for a specific path
func (ms *MockHTTPServer) AddJSONResponse(path string, statusCode int, body string) {
	ms.AddResponse(path, MockResponse{
		StatusCode: statusCode,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
}

// Hits returns how many requests were made for path, ignoring the query.
func (ms *MockHTTPServer) Hits(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.hits[path]
}

// Requests returns a copy of the recorded requests.
func (ms *MockHTTPServer) Requests() []*http.Request {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]*http.Request(nil), ms.requests...)
}

// TempFile writes content to name inside a fresh temp dir and returns its path.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

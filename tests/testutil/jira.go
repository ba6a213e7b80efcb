package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nhle/jira-skills/internal/jira"
)

// Request is a request recorded by a FakeJira server.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r Request) JSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decoding request body %q: %v", r.Body, err)
	}
}

// FakeJira is an httptest server that records every request and answers
// with the handler registered for "METHOD /path".
type FakeJira struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Request
}

// NewFakeJira starts a fake Jira server that is closed when the test ends.
// Unregistered routes answer 404 with a Jira-style error body.
func NewFakeJira(t *testing.T) *FakeJira {
	t.Helper()

	f := &FakeJira{handlers: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Handle registers h for method and path (without query string).
func (f *FakeJira) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

// HandleJSON registers a handler answering status with v encoded as JSON.
func (f *FakeJira) HandleJSON(method, path string, status int, v any) {
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Requests returns the recorded requests in arrival order.
func (f *FakeJira) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo returns the recorded requests for method and path.
func (f *FakeJira) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Client returns a jira.Client pointed at the fake server with fast retries.
func (f *FakeJira) Client() *jira.Client {
	return jira.NewClient(
		f.Server.URL, "dev@example.com", "token",
		jira.WithRetries(2, time.Millisecond),
		jira.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (f *FakeJira) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.mu.Lock()
	f.requests = append(f.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := f.handlers[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{
			"errorMessages": []string{"Issue does not exist or you do not have permission to see it."},
		})
		return
	}
	h(w, r)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Package testutil provides a fake PostPilot API for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is one call seen by a MockAPI.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte
}

// DecodeBody unmarshals the recorded JSON body into v.
func (r Request) DecodeBody(v any) error {
	return json.Unmarshal(r.Body, v)
}

// MockAPI is an httptest server that records every request it receives.
type MockAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewMockAPI registers handlers for exact path matches. Unmatched paths get 404.
func NewMockAPI(handlers map[string]http.HandlerFunc) *MockAPI {
	m := &MockAPI{}
	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		query := map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		m.mu.Lock()
		m.requests = append(m.requests, Request{Method: r.Method, Path: r.URL.Path, Query: query, Body: body})
		m.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	return m
}

// Requests returns a copy of the recorded requests.
func (m *MockAPI) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Count returns how many requests hit path.
func (m *MockAPI) Count(path string) int {
	n := 0
	for _, r := range m.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// WithJSONResponse creates an HTTP handler that returns a JSON response.
func WithJSONResponse(statusCode int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

// WithTextResponse creates an HTTP handler that returns a plain text body.
func WithTextResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(statusCode)
		_, _ = io.WriteString(w, body)
	}
}

// Sequence serves the given handlers in order, repeating the last one.
func Sequence(handlers ...http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	i := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		h := handlers[i]
		if i < len(handlers)-1 {
			i++
		}
		mu.Unlock()
		h(w, r)
	}
}

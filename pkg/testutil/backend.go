// Package testutil holds helpers for tests that need a fake backend
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Backend is a chi-routed httptest server that records every request it sees
type Backend struct {
	Router chi.Router
	server *httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

// NewBackend starts a fake backend; routes can be added to Router before use
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{Router: chi.NewRouter()}
	b.Router.Use(b.record)
	b.server = httptest.NewServer(b.Router)
	t.Cleanup(b.server.Close)
	return b
}

// URL is the server's base URL
func (b *Backend) URL() string {
	return b.server.URL
}

// Requests returns the requests received so far
func (b *Backend) Requests() []*http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*http.Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Hits counts requests to one path
func (b *Backend) Hits(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.URL.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Clone(r.Context()))
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes v with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Respond returns a handler that always answers with status and v
func Respond(status int, v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, v)
	}
}

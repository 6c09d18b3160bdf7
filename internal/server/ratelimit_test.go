package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kylingoround/pocket-graham-chat/internal/logging"
)

// TestRateLimiter_AllowsWithinBurst verifies requests inside the burst pass.
func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(1, 3, logging.New())
	defer stop()

	h := rl.middleware(okHandler)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d inside burst: status = %d, want 200", i, w.Code)
		}
	}
}

// TestRateLimiter_BlocksOverBurst verifies the request after the burst is
// rejected with 429 and a Retry-After header.
func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(0.001, 2, logging.New())
	defer stop()

	h := rl.middleware(okHandler)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

// TestRateLimiter_PerIPIsolation verifies one IP exhausting its bucket does
// not affect another.
func TestRateLimiter_PerIPIsolation(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(0.001, 1, logging.New())
	defer stop()

	h := rl.middleware(okHandler)

	first := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	h.ServeHTTP(httptest.NewRecorder(), first)

	blocked := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
	blocked.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, blocked)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("same IP second request: status = %d, want 429", w.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
	other.RemoteAddr = "10.0.0.4:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Errorf("different IP: status = %d, want 200", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"10.0.0.1:5000", "10.0.0.1"},
		{"[::1]:5000", "[::1]"},
		{"no-port", "no-port"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}

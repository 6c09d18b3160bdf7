package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kylingoround/pocket-graham-chat/internal/qa"
	"github.com/kylingoround/pocket-graham-chat/internal/response"
)

// fakeAsker returns a canned answer and records the question it received.
type fakeAsker struct {
	answer      qa.Answer
	err         error
	gotQuestion string
}

func (f *fakeAsker) Ask(_ context.Context, question string, _ qa.Options) (qa.Answer, error) {
	f.gotQuestion = question
	if f.err != nil {
		return qa.Answer{}, f.err
	}
	return f.answer, nil
}

// newTestServer builds a server around the fake with auth disabled and a
// generous rate limit so middleware does not interfere unless a test wants
// it to.
func newTestServer(t *testing.T, ask asker, cfg *Config) *Server {
	t.Helper()

	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1000
		cfg.RateBurst = 1000
	}
	s, err := newServer(ask, cfg)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	t.Cleanup(s.stopRL)
	return s
}

func TestHandleAsk(t *testing.T) {
	t.Parallel()

	fake := &fakeAsker{
		answer: qa.Answer{
			Response: response.Response{
				Text: "Make something people want.\n\nSources:\n• Be Good (relevance: 0.80)",
				Citations: []response.Citation{
					{CitationID: "cite_1", EssayTitle: "Be Good", RelevanceScore: 0.8},
				},
			},
		},
	}
	s := newTestServer(t, fake, nil)

	body := strings.NewReader(`{"question": "how do startups succeed?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if fake.gotQuestion != "how do startups succeed?" {
		t.Errorf("asker got question %q", fake.gotQuestion)
	}

	var resp askResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Answer, "Make something people want.") {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].EssayTitle != "Be Good" {
		t.Errorf("Citations = %+v", resp.Citations)
	}
	if resp.Declined {
		t.Error("Declined = true for an answered question")
	}
}

func TestHandleAskDeclined(t *testing.T) {
	t.Parallel()

	fake := &fakeAsker{
		answer: qa.Answer{
			Response:    response.Response{Text: "I focus on startups and essays."},
			Declined:    true,
			Suggestions: []string{"How do I come up with good startup ideas?"},
		},
	}
	s := newTestServer(t, fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "medical advice?"}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp askResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Declined {
		t.Error("Declined = false, want true")
	}
	if len(resp.Suggestions) == 0 {
		t.Error("declined response missing suggestions")
	}
}

func TestHandleAskBadRequests(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAsker{}, nil)

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("empty question", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": ""}`))
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			t.Errorf("GET /api/ask should not succeed, got %d", w.Code)
		}
	})
}

func TestHandleAskInternalError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAsker{err: errors.New("index corrupted")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "anything"}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	// Internal error details must not leak to the client.
	if strings.Contains(w.Body.String(), "index corrupted") {
		t.Errorf("response leaks internal error: %q", w.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAsker{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

// Health stays open even when auth is enabled; ask requires the token.
func TestAuthProtectsAskNotHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAsker{answer: qa.Answer{Response: response.Response{Text: "hi"}}}, &Config{APIKey: "secret"})

	askReq := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "startup advice"}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, askReq)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated ask status = %d, want 401", w.Code)
	}

	healthReq := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, healthReq)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAsker{answer: qa.Answer{Response: response.Response{Text: "hi"}}}, nil)

	// Generate one ask so counters have samples.
	askReq := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "growth"}`))
	s.Handler().ServeHTTP(httptest.NewRecorder(), askReq)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "grahamchat_ask_requests_total") {
		t.Errorf("metrics output missing ask counter:\n%s", w.Body.String())
	}
}

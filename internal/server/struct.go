package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kylingoround/pocket-graham-chat/internal/qa"
	"github.com/kylingoround/pocket-graham-chat/internal/response"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// Registry receives the server's Prometheus metrics. If nil, a fresh
	// registry is created and exposed on GET /metrics.
	Registry metricsRegistry
}

// asker is the interface handleAsk calls to answer a question.
// *qa.Service satisfies it; tests inject a fake.
type asker interface {
	Ask(ctx context.Context, question string, opts qa.Options) (qa.Answer, error)
}

// Server is the HTTP server that exposes the question-answering pipeline.
type Server struct {
	// asker answers questions; set to a *qa.Service in production,
	// overridden by a fake in tests.
	asker asker
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// metrics holds the Prometheus instruments owned by this instance.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// askRequest is the JSON body for POST /api/ask.
type askRequest struct {
	// Question is the user's natural language question.
	Question string `json:"question"`
	// TopK overrides the number of retrieved chunks when positive.
	TopK int `json:"top_k,omitempty"`
	// PauseScale overrides the speech pause intensity (1-5) when positive.
	PauseScale int `json:"pause_scale,omitempty"`
}

// askResponse is the JSON response for POST /api/ask.
type askResponse struct {
	// Answer is the formatted answer text, or the decline message.
	Answer string `json:"answer"`
	// Citations lists the source references backing the answer.
	Citations []response.Citation `json:"citations"`
	// Declined indicates the question was refused as off-topic.
	Declined bool `json:"declined"`
	// Suggestions lists on-topic prompts, present only when Declined.
	Suggestions []string `json:"suggestions,omitempty"`
}

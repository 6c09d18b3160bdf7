// Package server implements the HTTP server that exposes the question-
// answering pipeline via a small JSON API. The server is started by the
// `grahamchat serve` CLI command.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kylingoround/pocket-graham-chat/internal/logging"
	"github.com/kylingoround/pocket-graham-chat/internal/qa"
)

// New constructs a Server from the provided QA service and config.
func New(svc *qa.Service, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("server: qa service must not be nil")
	}
	return newServer(svc, cfg)
}

// newServer is the injectable constructor used by tests to supply a fake asker.
func newServer(ask asker, cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logging.New()
	}

	s := &Server{asker: ask, cfg: cfg, log: log}

	reg := newRegistry(cfg.Registry)
	s.metrics = newServerMetrics(reg)

	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}
	rateBurst := cfg.RateBurst
	if rateBurst == 0 {
		rateBurst = defaultRateBurst
	}
	rl, stopRL := newRateLimiter(rateLimit, rateBurst, log)
	s.stopRL = stopRL

	if cfg.APIKey == "" {
		log.Warn("API key not configured; authentication is disabled")
	}

	protected := func(h http.Handler) http.Handler {
		return rl.middleware(authMiddleware(cfg.APIKey, h))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/ask", protected(http.HandlerFunc(s.handleAsk)))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger(log, s.instrument(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	defer s.stopRL()

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// Handler returns the server's root HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleAsk handles POST /api/ask requests.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	answer, err := s.asker.Ask(r.Context(), req.Question, qa.Options{TopK: req.TopK, PauseScale: req.PauseScale})
	elapsed := time.Since(start)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case answer.Declined:
		outcome = "declined"
	}
	s.metrics.askRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.askDurationSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())

	if err != nil {
		log.Error("ask failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := askResponse{
		Answer:      answer.Response.Text,
		Citations:   answer.Response.Citations,
		Declined:    answer.Declined,
		Suggestions: answer.Suggestions,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("encode response", slog.String("error", err.Error()))
	}
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

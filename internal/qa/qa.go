// Package qa orchestrates one question/answer turn: relevance gating,
// retrieval, extractive answer assembly, and optional speech-pause markup.
// The `ask` and `chat` commands and the HTTP server all go through the same
// Service so behaviour never diverges between surfaces.
package qa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kylingoround/pocket-graham-chat/internal/logging"
	"github.com/kylingoround/pocket-graham-chat/internal/rag"
	"github.com/kylingoround/pocket-graham-chat/internal/relevance"
	"github.com/kylingoround/pocket-graham-chat/internal/response"
	"github.com/kylingoround/pocket-graham-chat/internal/speech"
)

// defaultMaxPassages is how many retrieved passages the extractive answer
// quotes in full. The remaining results still appear as citations.
const defaultMaxPassages = 2

// Config tunes a Service.
type Config struct {
	// TopK is the number of chunks retrieved per question. Defaults to 5.
	TopK int
	// PauseScale is the speech pause intensity (0 disables) applied to the
	// answer text. Defaults to 0.
	PauseScale int
	// MaxPassages is how many passages the extractive answer quotes.
	// Defaults to 2.
	MaxPassages int
}

// Answer is the outcome of one question.
type Answer struct {
	// Response is the formatted answer with citations. When Declined is
	// true, Response.Text holds the decline message and Citations is empty.
	Response response.Response
	// Declined reports whether the relevance gate refused the question.
	Declined bool
	// Suggestions lists on-topic prompts, populated only when Declined.
	Suggestions []string
}

// Options are per-question overrides. Zero values fall back to the
// Service defaults.
type Options struct {
	// TopK overrides the retrieved chunk count when positive.
	TopK int
	// PauseScale overrides the speech pause intensity when positive.
	PauseScale int
}

// Service answers questions against an indexed essay corpus.
type Service struct {
	retriever rag.Retriever
	cfg       Config
}

// New constructs a Service over the given retriever.
func New(retriever rag.Retriever, cfg Config) (*Service, error) {
	if retriever == nil {
		return nil, fmt.Errorf("qa: retriever must not be nil")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxPassages <= 0 {
		cfg.MaxPassages = defaultMaxPassages
	}
	return &Service{retriever: retriever, cfg: cfg}, nil
}

// Ask runs the full pipeline for one question. Off-topic questions are
// declined without touching the index. Zero-valued opts fields use the
// Service defaults.
func (s *Service) Ask(ctx context.Context, question string, opts Options) (Answer, error) {
	if question == "" {
		return Answer{}, fmt.Errorf("qa: question must not be empty")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	pauseScale := opts.PauseScale
	if pauseScale <= 0 {
		pauseScale = s.cfg.PauseScale
	}

	log := logging.FromContext(ctx)

	if gate := relevance.Check(question); !gate.Relevant {
		log.Info("question declined by relevance gate")
		return Answer{
			Response:    response.Response{Text: gate.DeclineMessage},
			Declined:    true,
			Suggestions: relevance.SuggestedQuestions(),
		}, nil
	}

	results, err := s.retriever.Retrieve(ctx, question, topK)
	if err != nil {
		return Answer{}, fmt.Errorf("qa: retrieve: %w", err)
	}
	log.Debug("retrieved chunks", slog.Int("count", len(results)))

	answer := response.Extract(results, s.cfg.MaxPassages)
	if pauseScale > speech.MinScale {
		paused, err := speech.AddPauses(answer, pauseScale)
		if err != nil {
			return Answer{}, fmt.Errorf("qa: pause markup: %w", err)
		}
		answer = paused
	}

	return Answer{Response: response.Assemble(answer, results)}, nil
}

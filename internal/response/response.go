// Package response assembles the final cited output from ranked search
// results: structured citations with snippets, a sources block appended to
// the answer text, and the context block an external answer generator
// consumes. Generation itself (LLM) happens outside this repo.
package response

import (
	"fmt"
	"strings"

	"github.com/kylingoround/pocket-graham-chat/internal/rag"
)

// snippetLen is the maximum citation snippet length in bytes.
const snippetLen = 100

// Citation attributes part of an answer to a source passage.
type Citation struct {
	// CitationID is a stable per-response identifier ("cite_1", ...).
	CitationID string `json:"citation_id"`

	// EssayTitle is the source essay title.
	EssayTitle string `json:"essay_title"`

	// EssayURL is the canonical source URL.
	EssayURL string `json:"essay_url"`

	// ChunkText is a truncated snippet of the cited passage.
	ChunkText string `json:"chunk_text"`

	// RelevanceScore is the cosine similarity of the passage to the query.
	RelevanceScore float32 `json:"relevance_score"`
}

// Response is the final formatted output for one question.
type Response struct {
	// Text is the answer text with the sources block appended.
	Text string `json:"text"`

	// Citations lists the source references backing the answer.
	Citations []Citation `json:"citations"`

	// AudioPath is the rendered audio file location, if a TTS collaborator
	// produced one. Always empty in this repo.
	AudioPath string `json:"audio_path"`
}

// Assemble formats answer with source attributions drawn from results.
func Assemble(answer string, results []rag.SearchResult) Response {
	citations := Citations(results)

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\nSources:")
	for _, c := range citations {
		fmt.Fprintf(&b, "\n• %s (relevance: %.2f)", c.EssayTitle, c.RelevanceScore)
	}

	return Response{Text: b.String(), Citations: citations}
}

// Citations converts ranked results into citation records with truncated
// snippets.
func Citations(results []rag.SearchResult) []Citation {
	citations := make([]Citation, 0, len(results))
	for i, r := range results {
		citations = append(citations, Citation{
			CitationID:     fmt.Sprintf("cite_%d", i+1),
			EssayTitle:     r.Chunk.EssayTitle,
			EssayURL:       r.Chunk.EssayURL,
			ChunkText:      snippet(r.Chunk.Text),
			RelevanceScore: r.SimilarityScore,
		})
	}
	return citations
}

// Context builds the source-passage block an external answer generator
// receives alongside the question.
func Context(results []rag.SearchResult) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("Source %d (from %q):\n%s", i+1, r.Chunk.EssayTitle, r.Chunk.Text))
	}
	return strings.Join(parts, "\n\n")
}

// Extract composes a purely extractive answer from the top results, used
// when no external generator is wired in: the highest-ranked passages
// quoted with their essay titles.
func Extract(results []rag.SearchResult, maxPassages int) string {
	if len(results) == 0 {
		return "I couldn't find anything in the essays about that."
	}
	if maxPassages <= 0 || maxPassages > len(results) {
		maxPassages = len(results)
	}

	var b strings.Builder
	b.WriteString("From the essays:\n")
	for _, r := range results[:maxPassages] {
		fmt.Fprintf(&b, "\nFrom %q:\n%s\n", r.Chunk.EssayTitle, r.Chunk.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// snippet truncates text for citation display.
func snippet(text string) string {
	if len(text) <= snippetLen {
		return text
	}
	return text[:snippetLen] + "..."
}

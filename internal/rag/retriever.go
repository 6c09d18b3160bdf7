package rag

import (
	"context"
	"fmt"
)

// DefaultRetriever implements Retriever by combining an Embedder and a
// Searcher. It embeds the question at retrieval time and delegates
// similarity search to the index.
type DefaultRetriever struct {
	// embedder converts the question text to a query vector.
	embedder Embedder

	// searcher performs the vector similarity search.
	searcher Searcher

	// defaultTopK is the result count used when the caller passes 0.
	defaultTopK int
}

// NewRetriever constructs a DefaultRetriever. defaultTopK sets the fallback
// result count when Retrieve is called with topK <= 0.
func NewRetriever(embedder Embedder, searcher Searcher, defaultTopK int) (*DefaultRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if searcher == nil {
		return nil, fmt.Errorf("rag: searcher must not be nil")
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &DefaultRetriever{
		embedder:    embedder,
		searcher:    searcher,
		defaultTopK: defaultTopK,
	}, nil
}

// Retrieve embeds the question and returns the top-k most relevant chunks.
func (r *DefaultRetriever) Retrieve(ctx context.Context, question string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = r.defaultTopK
	}

	embeddings, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding question failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for question")
	}

	results, err := r.searcher.Search(embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	return results, nil
}

// Package rag defines the data model and interfaces for the retrieval
// pipeline: essay chunks with citation metadata, ranked search results, and
// the embedding/search seams the CLI and server compose. Concrete
// implementations (the local embedders, the vector index) satisfy these
// interfaces so callers never depend on a specific backend.
package rag

import "context"

// Chunk is a bounded span of essay text carrying citation metadata and,
// once populated by an embedding provider, its vector representation.
//
// Chunks are created by the chunk builder with an empty Embedding slot;
// the slot is filled exactly once during indexing and the chunk is treated
// as immutable from then on. ChunkIndex is 0-based and strictly sequential
// within one essay.
type Chunk struct {
	// Text is the chunk's text content, whitespace-trimmed.
	Text string

	// EssayTitle is the title of the source essay.
	EssayTitle string

	// EssayFilename is the corpus filename the chunk was cut from.
	EssayFilename string

	// EssayURL is the canonical URL of the source essay.
	EssayURL string

	// TextID is the corpus identifier of the source essay.
	TextID string

	// ChunkIndex is the 0-based position of this chunk within its essay.
	ChunkIndex int

	// StartPos and EndPos are running byte offsets into the essay content
	// at the time the chunk's buffer opened and closed. Offsets do not
	// account for overlap text duplicated from the previous chunk; see the
	// chunking package for the exact bookkeeping.
	StartPos int
	EndPos   int

	// Embedding is the chunk's vector, empty until the embedding phase.
	Embedding []float32
}

// SearchResult is a Chunk augmented with its similarity to a query.
// Results are derived per query, never stored.
type SearchResult struct {
	// Chunk is a copy of the stored chunk metadata.
	Chunk Chunk

	// SimilarityScore is the raw cosine similarity in [-1, 1].
	SimilarityScore float32

	// Rank is the 1-based position of this result in the ranked list.
	Rank int
}

// Embedder converts text into dense vector embeddings. All implementations
// in this repo are local, deterministic computations — there is no network
// or model-calling provider.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension reports the length of the vectors Embed produces.
	Dimension() int
}

// Searcher performs similarity search over stored chunk embeddings.
// The vector index satisfies it; tests inject fakes.
type Searcher interface {
	// Search returns the top-k most similar chunks for the query vector,
	// ranked by descending cosine similarity.
	Search(query []float32, topK int) ([]SearchResult, error)
}

// Retriever is the high-level seam used by the CLI and server to fetch
// relevant chunks for a question. It combines embedding and vector search.
type Retriever interface {
	// Retrieve returns the top-k most relevant chunks for the question.
	Retrieve(ctx context.Context, question string, topK int) ([]SearchResult, error)
}

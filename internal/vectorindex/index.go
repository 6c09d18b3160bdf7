// Package vectorindex provides the in-memory nearest-neighbor index over
// chunk embeddings: bulk load, exact cosine-similarity top-k search, and
// binary persistence.
//
// The index follows a build-once, read-many discipline: a single bulk
// AddEmbeddings call populates it, after which it is treated as immutable
// for the remainder of the process. Concurrent read-only searches are safe
// without locking; there is no delete or update-in-place. Re-indexing means
// building and persisting a fresh index and swapping the file in (the CLI's
// index command writes to a temp file and renames for exactly that reason).
//
// Search is an exact linear scan, O(N·D) per query. That is deliberate at
// this corpus scale; this is not an approximate-nearest-neighbor engine.
package vectorindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/kylingoround/pocket-graham-chat/internal/rag"
)

// Index pairs embedding vectors with chunk metadata. The two slices are
// parallel and always equal in length; dimension is fixed by the first
// vector ever added.
type Index struct {
	embeddings [][]float32
	metadata   []rag.Chunk
	dimension  int
}

// New returns an empty index. Dimension is unset until the first add.
func New() *Index {
	return &Index{}
}

// Len reports the number of stored vectors.
func (idx *Index) Len() int { return len(idx.embeddings) }

// Dimension reports the fixed vector dimension, or 0 if nothing has been
// added yet.
func (idx *Index) Dimension() int { return idx.dimension }

// AddEmbeddings bulk-loads vectors and their parallel chunk metadata.
//
// All validation happens before any mutation, so a failed call leaves the
// index unchanged. Both slices empty is a no-op. The first vector ever
// added fixes the index dimension; every vector in this and later calls
// must match it exactly.
func (idx *Index) AddEmbeddings(vectors [][]float32, metadata []rag.Chunk) error {
	if len(vectors) != len(metadata) {
		return fmt.Errorf("%w: embeddings and metadata lists must have same length (%d != %d)",
			ErrConfiguration, len(vectors), len(metadata))
	}
	if len(vectors) == 0 {
		return nil
	}

	dimension := idx.dimension
	if dimension == 0 {
		dimension = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return fmt.Errorf("%w: embedding %d has dimension %d, index dimension is %d",
				ErrConfiguration, i, len(v), dimension)
		}
	}

	idx.dimension = dimension
	idx.embeddings = append(idx.embeddings, vectors...)
	idx.metadata = append(idx.metadata, metadata...)
	return nil
}

// Search returns the top-k stored chunks ranked by cosine similarity to
// query, each carrying its raw similarity score (may be negative) and a
// 1-based rank.
//
// An empty index returns no results for any query. Otherwise the query must
// match the index dimension (ErrConfiguration) and have nonzero norm
// (ErrInput). A stored vector with zero norm scores 0.0 rather than
// erroring. Ties are broken by insertion order, earlier first; the ordering
// is deterministic by contract.
func (idx *Index) Search(query []float32, topK int) ([]rag.SearchResult, error) {
	if len(idx.embeddings) == 0 {
		return nil, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index dimension is %d",
			ErrConfiguration, len(query), idx.dimension)
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, fmt.Errorf("%w: query embedding cannot be zero vector", ErrInput)
	}

	similarities := make([]float32, len(idx.embeddings))
	for i, emb := range idx.embeddings {
		embNorm := norm(emb)
		if embNorm == 0 {
			similarities[i] = 0
			continue
		}
		similarities[i] = dot(query, emb) / (queryNorm * embNorm)
	}

	order := make([]int, len(similarities))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if similarities[ia] != similarities[ib] {
			return similarities[ia] > similarities[ib]
		}
		return ia < ib
	})

	if topK < 0 {
		topK = 0
	}
	if topK > len(order) {
		topK = len(order)
	}

	results := make([]rag.SearchResult, 0, topK)
	for rank, i := range order[:topK] {
		results = append(results, rag.SearchResult{
			Chunk:           idx.metadata[i],
			SimilarityScore: similarities[i],
			Rank:            rank + 1,
		})
	}
	return results, nil
}

// dot returns the dot product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// norm returns the L2 norm of v.
func norm(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}

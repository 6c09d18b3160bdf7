package embedder

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// DefaultHashDimensions is the vector size used by the hashing provider
// when EMBEDDING_DIMENSIONS is not set.
const DefaultHashDimensions = 256

// Hashing is a stateless feature-hashing embedder: each token is hashed
// with FNV-1a into one of Dimension buckets with a hash-derived sign, and
// the resulting vector is L2-normalized. Unlike TF-IDF it needs no fitted
// state, at the cost of weaker retrieval quality from hash collisions.
type Hashing struct {
	dimension int
	stopwords map[string]struct{}
}

// NewHashing returns a hashing embedder with the given vector dimension.
func NewHashing(dimension int) (*Hashing, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("embedder: hashing dimension must be positive, got %d", dimension)
	}
	return &Hashing{dimension: dimension, stopwords: defaultStopwords()}, nil
}

// Dimension reports the configured vector size.
func (e *Hashing) Dimension() int { return e.dimension }

// Embed converts a batch of texts into hashed feature vectors. The returned
// slice is parallel to the input. Texts with no tokens embed to the zero
// vector.
func (e *Hashing) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embedOne(text)
	}
	return out, nil
}

// embedOne hashes each token to a signed bucket and normalizes.
func (e *Hashing) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	for _, tok := range tokens {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		bucket := int(sum % uint64(e.dimension)) //nolint:gosec // dimension is small and positive
		// Top bit chooses the sign so colliding tokens can cancel rather
		// than always accumulate.
		if sum&(1<<63) != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	normalize(vec)
	return vec
}

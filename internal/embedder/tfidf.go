// Package embedder provides local, deterministic embedding providers that
// satisfy [rag.Embedder]. There are no network or model-backed providers in
// this repo: the TF-IDF provider fits on the chunk corpus at index time and
// persists its state so queries embed identically later, and the hashing
// provider is stateless feature hashing.
package embedder

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches word tokens: letter runs with optional interior
// apostrophes ("don't", "founder's").
var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// TFIDF is a term-frequency / inverse-document-frequency vectorizer.
// Fit builds the vocabulary and smoothed IDF weights from a corpus; Embed
// then produces L2-normalized vectors over that fixed vocabulary.
//
// The fitted state must be persisted alongside the vector index (Save /
// LoadTFIDF) so that query-time embedding uses the same vocabulary that
// produced the stored chunk vectors.
type TFIDF struct {
	vocabulary map[string]int
	idf        []float32
	dimension  int
	stopwords  map[string]struct{}
}

// NewTFIDF returns an unfitted TF-IDF embedder.
func NewTFIDF() *TFIDF {
	return &TFIDF{stopwords: defaultStopwords()}
}

// Fit builds the vocabulary and IDF weights from the corpus texts.
func (e *TFIDF) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("embedder: empty corpus for tf-idf fit")
	}

	// Document frequency per term.
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return fmt.Errorf("embedder: no tokens found in corpus")
	}
	// Stable term ordering so fitted state is reproducible.
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float32, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF keeps weights finite for terms in every document.
		e.idf[i] = float32(math.Log((1+n)/(1+float64(df[term]))) + 1)
	}
	e.dimension = len(terms)

	return nil
}

// Dimension reports the fitted vocabulary size, or 0 before Fit.
func (e *TFIDF) Dimension() int { return e.dimension }

// Embed converts a batch of texts into TF-IDF vectors. The returned slice
// is parallel to the input. Texts with no in-vocabulary tokens embed to the
// zero vector.
func (e *TFIDF) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.dimension == 0 {
		return nil, fmt.Errorf("embedder: tf-idf embedder is not fitted")
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embedOne(text)
	}
	return out, nil
}

// embedOne computes one L2-normalized TF-IDF vector.
func (e *TFIDF) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}

	for idx, count := range tf {
		vec[idx] = float32(count) / float32(total) * e.idf[idx]
	}

	normalize(vec)
	return vec
}

// tokenize lowercases text, extracts word tokens, and drops stopwords.
func (e *TFIDF) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// tfidfState is the persisted gob shape of a fitted embedder.
type tfidfState struct {
	Vocabulary map[string]int
	IDF        []float32
	Dimension  int
}

// Save persists the fitted state to path, creating parent directories.
func (e *TFIDF) Save(path string) error {
	if e.dimension == 0 {
		return fmt.Errorf("embedder: cannot save unfitted tf-idf state")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("embedder: create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("embedder: create %s: %w", path, err)
	}
	defer f.Close()

	state := tfidfState{Vocabulary: e.vocabulary, IDF: e.idf, Dimension: e.dimension}
	if err := gob.NewEncoder(f).Encode(state); err != nil {
		return fmt.Errorf("embedder: encode %s: %w", path, err)
	}
	return nil
}

// LoadTFIDF reconstructs a fitted embedder from a file written by Save.
func LoadTFIDF(path string) (*TFIDF, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("embedder: tf-idf state file not found: %s", path)
		}
		return nil, fmt.Errorf("embedder: open %s: %w", path, err)
	}
	defer f.Close()

	var state tfidfState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return nil, fmt.Errorf("embedder: decode %s: %w", path, err)
	}

	return &TFIDF{
		vocabulary: state.Vocabulary,
		idf:        state.IDF,
		dimension:  state.Dimension,
		stopwords:  defaultStopwords(),
	}, nil
}

// normalize L2-normalizes v in place; the zero vector is left unchanged.
func normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}

// defaultStopwords returns the English stopword set shared by the local
// providers.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

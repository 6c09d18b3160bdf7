package embedder

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kylingoround/pocket-graham-chat/internal/rag"
)

// Provider names accepted by NewFromEnv.
const (
	// ProviderTFIDF fits a vocabulary on the chunk corpus at index time and
	// persists it next to the vector index. Default.
	ProviderTFIDF = "tfidf"

	// ProviderHashing is stateless feature hashing; no fitted state.
	ProviderHashing = "hashing"
)

// ProviderFromEnv resolves the embedding provider name from
// EMBEDDING_PROVIDER, defaulting to tfidf.
func ProviderFromEnv() string {
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		return v
	}
	return ProviderTFIDF
}

// StatePath returns the fitted-state file path for a stateful provider,
// derived from the index path (<index path>.embedder). Stateless providers
// have no state file.
func StatePath(indexPath string) string {
	return indexPath + ".embedder"
}

// NewForIndexing constructs the provider used by the offline index command.
// TF-IDF comes back unfitted; the caller fits it on the chunk corpus and
// saves its state. Hashing needs no fit.
//
// EMBEDDING_DIMENSIONS overrides the hashing dimension (default 256); the
// TF-IDF dimension is always the fitted vocabulary size.
func NewForIndexing(provider string) (rag.Embedder, error) {
	switch provider {
	case ProviderTFIDF, "":
		return NewTFIDF(), nil
	case ProviderHashing:
		return NewHashing(dimensionsFromEnv())
	default:
		return nil, fmt.Errorf("embedder: unknown provider %q (want %s or %s)",
			provider, ProviderTFIDF, ProviderHashing)
	}
}

// NewForQuerying constructs the provider used at ask/serve time. Stateful
// providers reload the state saved during indexing from statePath.
func NewForQuerying(provider, statePath string) (rag.Embedder, error) {
	switch provider {
	case ProviderTFIDF, "":
		return LoadTFIDF(statePath)
	case ProviderHashing:
		return NewHashing(dimensionsFromEnv())
	default:
		return nil, fmt.Errorf("embedder: unknown provider %q (want %s or %s)",
			provider, ProviderTFIDF, ProviderHashing)
	}
}

// Fitter is implemented by providers that must be fitted on the chunk
// corpus before they can embed.
type Fitter interface {
	Fit(corpus []string) error
}

// StateSaver is implemented by providers whose fitted state must be
// persisted for query-time embedding.
type StateSaver interface {
	Save(path string) error
}

// dimensionsFromEnv resolves EMBEDDING_DIMENSIONS with the hashing default.
func dimensionsFromEnv() int {
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultHashDimensions
}

package vectorindex

import "errors"

// Error taxonomy for the index. Callers branch with errors.Is; the wrapped
// messages carry the specific violation.
var (
	// ErrConfiguration reports a structural violation on add or search:
	// embeddings/metadata length mismatch, or a vector whose length differs
	// from the index dimension.
	ErrConfiguration = errors.New("vectorindex: configuration error")

	// ErrInput reports an unusable query value, i.e. a zero-norm query
	// vector that cannot be normalized.
	ErrInput = errors.New("vectorindex: invalid input")

	// ErrNotFound reports a missing index file at load time.
	ErrNotFound = errors.New("vectorindex: not found")
)

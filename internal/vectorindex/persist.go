package vectorindex

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kylingoround/pocket-graham-chat/internal/rag"
)

// persistedIndex is the on-disk shape: one gob blob holding the parallel
// sequences and the dimension. There is no version tag; callers owning the
// file format migrate out-of-band.
type persistedIndex struct {
	Embeddings [][]float32
	Metadata   []rag.Chunk
	Dimension  int
}

// Save serializes the index to path as a single binary blob, creating
// parent directories as needed. Save does not write atomically; callers
// that need readers to never observe a partial file should write to a temp
// path and rename (the index CLI command does).
func (idx *Index) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("vectorindex: create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vectorindex: create %s: %w", path, err)
	}
	defer f.Close()

	record := persistedIndex{
		Embeddings: idx.embeddings,
		Metadata:   idx.metadata,
		Dimension:  idx.dimension,
	}
	if err := gob.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("vectorindex: encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("vectorindex: close %s: %w", path, err)
	}
	return nil
}

// Load reconstructs an index from a file written by Save. The returned
// index answers any search identically to the one that was saved, up to
// floating-point representation. A missing file reports ErrNotFound.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: index file %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("vectorindex: open %s: %w", path, err)
	}
	defer f.Close()

	var record persistedIndex
	if err := gob.NewDecoder(f).Decode(&record); err != nil {
		return nil, fmt.Errorf("vectorindex: decode %s: %w", path, err)
	}

	return &Index{
		embeddings: record.Embeddings,
		metadata:   record.Metadata,
		dimension:  record.Dimension,
	}, nil
}

// Metadata returns the stored chunk metadata in insertion order. The slice
// is shared with the index; treat it as read-only.
func (idx *Index) Metadata() []rag.Chunk {
	return idx.metadata
}

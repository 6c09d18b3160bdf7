package vectorindex

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.gob")

	if err := idx.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Len() != idx.Len() {
		t.Errorf("Len = %d, want %d", loaded.Len(), idx.Len())
	}
	if loaded.Dimension() != idx.Dimension() {
		t.Errorf("Dimension = %d, want %d", loaded.Dimension(), idx.Dimension())
	}

	// A loaded index must answer searches identically to the original.
	query := []float32{1, 0}
	want, err := idx.Search(query, 3)
	if err != nil {
		t.Fatalf("Search original: %v", err)
	}
	got, err := loaded.Search(query, 3)
	if err != nil {
		t.Fatalf("Search loaded: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Chunk.Text != want[i].Chunk.Text ||
			got[i].SimilarityScore != want[i].SimilarityScore ||
			got[i].Rank != want[i].Rank {
			t.Errorf("result %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.gob"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "index.gob")

	if err := idx.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestMetadataPreservedAcrossRoundTrip(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.gob")
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	orig := idx.Metadata()
	got := loaded.Metadata()
	if len(got) != len(orig) {
		t.Fatalf("metadata length = %d, want %d", len(got), len(orig))
	}
	for i := range got {
		if got[i].Text != orig[i].Text || got[i].ChunkIndex != orig[i].ChunkIndex {
			t.Errorf("metadata %d = %+v, want %+v", i, got[i], orig[i])
		}
	}
}

package chunking

import (
	"strings"
	"testing"

	"github.com/kylingoround/pocket-graham-chat/internal/corpus"
)

func testEssay(content string) corpus.Essay {
	return corpus.Essay{
		TextID:   "42",
		Title:    "How to Start a Startup",
		URL:      "http://paulgraham.com/start.html",
		Filename: "42.txt",
		Content:  content,
	}
}

func TestChunkEssaySplitsWithOverlap(t *testing.T) {
	t.Parallel()

	content := "One two three four five six. Seven eight nine ten eleven twelve. Thirteen fourteen."
	chunks := ChunkEssay(testEssay(content), Config{ChunkSize: 30, Overlap: 10})

	want := []struct {
		text     string
		start    int
		end      int
	}{
		{"One two three four five six.", 0, 29},
		{"six. Seven eight nine ten eleven twelve.", 36, 78},
		{"twelve. Thirteen fourteen.", 54, 81},
	}

	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %+v", len(chunks), len(want), chunks)
	}
	for i, w := range want {
		c := chunks[i]
		if c.Text != w.text {
			t.Errorf("chunk %d text = %q, want %q", i, c.Text, w.text)
		}
		if c.ChunkIndex != i {
			t.Errorf("chunk %d index = %d, want %d", i, c.ChunkIndex, i)
		}
		if c.StartPos != w.start || c.EndPos != w.end {
			t.Errorf("chunk %d offsets = [%d, %d], want [%d, %d]", i, c.StartPos, c.EndPos, w.start, w.end)
		}
	}

	// Each chunk after the first opens with text carried over from its
	// predecessor, so retrieval never loses context at a boundary.
	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i].Text)[0]
		if !strings.Contains(chunks[i-1].Text, firstWord) {
			t.Errorf("chunk %d does not overlap chunk %d: %q vs %q", i, i-1, chunks[i].Text, chunks[i-1].Text)
		}
	}
}

func TestChunkEssayMetadata(t *testing.T) {
	t.Parallel()

	essay := testEssay("Alpha beta. Gamma delta.")
	chunks := ChunkEssay(essay, Config{})

	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for i, c := range chunks {
		if c.TextID != essay.TextID {
			t.Errorf("chunk %d TextID = %q, want %q", i, c.TextID, essay.TextID)
		}
		if c.EssayTitle != essay.Title {
			t.Errorf("chunk %d EssayTitle = %q, want %q", i, c.EssayTitle, essay.Title)
		}
		if c.EssayURL != essay.URL {
			t.Errorf("chunk %d EssayURL = %q, want %q", i, c.EssayURL, essay.URL)
		}
		if c.EssayFilename != essay.Filename {
			t.Errorf("chunk %d EssayFilename = %q, want %q", i, c.EssayFilename, essay.Filename)
		}
		if len(c.Embedding) != 0 {
			t.Errorf("chunk %d Embedding should be empty before the embedding phase", i)
		}
	}
}

func TestChunkEssayEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("empty content yields no chunks", func(t *testing.T) {
		t.Parallel()
		if chunks := ChunkEssay(testEssay(""), Config{}); len(chunks) != 0 {
			t.Errorf("got %d chunks, want 0", len(chunks))
		}
	})

	t.Run("oversized sentence emitted whole", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("word ", 40) + "end."
		chunks := ChunkEssay(testEssay(long), Config{ChunkSize: 50, Overlap: 10})
		if len(chunks) != 1 {
			t.Fatalf("got %d chunks, want 1", len(chunks))
		}
		if chunks[0].Text != strings.TrimSpace(long) {
			t.Errorf("oversized sentence was cut: %q", chunks[0].Text)
		}
	})

	t.Run("short essay fits one chunk", func(t *testing.T) {
		t.Parallel()
		chunks := ChunkEssay(testEssay("Tiny essay."), Config{ChunkSize: 500, Overlap: 100})
		if len(chunks) != 1 {
			t.Fatalf("got %d chunks, want 1", len(chunks))
		}
		if chunks[0].Text != "Tiny essay." {
			t.Errorf("chunk text = %q", chunks[0].Text)
		}
	})
}

func TestConfigResolve(t *testing.T) {
	t.Parallel()

	t.Run("zero size takes default", func(t *testing.T) {
		t.Parallel()
		cfg := Config{}.resolve()
		if cfg.ChunkSize != DefaultChunkSize {
			t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, DefaultChunkSize)
		}
	})

	t.Run("overlap clamped below size", func(t *testing.T) {
		t.Parallel()
		cfg := Config{ChunkSize: 100, Overlap: 100}.resolve()
		if cfg.Overlap != 10 {
			t.Errorf("Overlap = %d, want 10", cfg.Overlap)
		}
	})
}

func TestOverlapSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		overlap int
		want    string
	}{
		{"text within overlap returned whole", "short", 10, "short"},
		{"trimmed back to first interior space", "One two three four five six. ", 10, " six. "},
		{"suffix starting with space used raw", "abcdef ghij", 5, " ghij"},
		{"no space in suffix used raw", "abcdefghijklmno", 5, "klmno"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := overlapSuffix(tt.text, tt.overlap); got != tt.want {
				t.Errorf("overlapSuffix(%q, %d) = %q, want %q", tt.text, tt.overlap, got, tt.want)
			}
		})
	}
}

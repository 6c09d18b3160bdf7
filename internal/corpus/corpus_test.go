package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMeta(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "meta.csv")
	writeFile(t, path, "text_id,title,link\n1,How to Start a Startup,http://paulgraham.com/start.html\n2,Hackers and Painters,http://paulgraham.com/hp.html\n")

	metas, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d rows, want 2", len(metas))
	}

	first := metas[0]
	if first.TextID != "1" {
		t.Errorf("TextID = %q, want 1", first.TextID)
	}
	if first.Title != "How to Start a Startup" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.URL != "http://paulgraham.com/start.html" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Filename != "1.txt" {
		t.Errorf("Filename = %q, want 1.txt", first.Filename)
	}
}

func TestLoadMetaColumnOrderIndependent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "meta.csv")
	writeFile(t, path, "link,text_id,title\nhttp://example.com/a,7,Essay A\n")

	metas, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if metas[0].TextID != "7" || metas[0].Title != "Essay A" || metas[0].URL != "http://example.com/a" {
		t.Errorf("unexpected row: %+v", metas[0])
	}
}

func TestLoadMetaErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadMeta(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Error("missing file should fail")
		}
	})

	t.Run("missing required column", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "meta.csv")
		writeFile(t, path, "text_id,title\n1,No Link Column\n")
		if _, err := LoadMeta(path); err == nil {
			t.Error("missing link column should fail")
		}
	})
}

func TestLoadEssays(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1.txt"), "  Essay one content.  \n")
	// 2.txt deliberately missing.
	metas := []Meta{
		{TextID: "1", Title: "One", URL: "http://example.com/1", Filename: "1.txt"},
		{TextID: "2", Title: "Two", URL: "http://example.com/2", Filename: "2.txt"},
	}

	essays, err := LoadEssays(dir, metas, nil)
	if err != nil {
		t.Fatalf("LoadEssays: %v", err)
	}
	if len(essays) != 1 {
		t.Fatalf("got %d essays, want 1 (missing file skipped)", len(essays))
	}
	if essays[0].Content != "Essay one content." {
		t.Errorf("Content = %q, want trimmed text", essays[0].Content)
	}
	if essays[0].Title != "One" {
		t.Errorf("Title = %q", essays[0].Title)
	}
}

func TestLoadEssaysMissingDataDir(t *testing.T) {
	t.Parallel()

	if _, err := LoadEssays(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
		t.Error("missing data directory should fail")
	}
}

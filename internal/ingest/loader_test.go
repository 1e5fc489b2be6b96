package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadTxt(t *testing.T) {
	loader := NewLoader(DefaultChunkSize, DefaultChunkOverlap)

	content := strings.Repeat("a line of lecture notes.\n", 100)
	path := writeTempFile(t, "notes.txt", content)

	chunks, err := loader.Load(path, "txt", "sess-1", "notes.txt")
	if err != nil {
		t.Fatalf("load txt: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks for non-empty txt")
	}
	for _, c := range chunks {
		if c.SessionID != "sess-1" || c.Source != "notes.txt" {
			t.Fatalf("chunk missing metadata: %+v", c)
		}
	}
}

func TestLoadTxtUppercaseExtension(t *testing.T) {
	loader := NewLoader(DefaultChunkSize, DefaultChunkOverlap)

	path := writeTempFile(t, "notes.txt", "some content")
	chunks, err := loader.Load(path, ".TXT", "sess-1", "notes.txt")
	if err != nil {
		t.Fatalf("load txt with .TXT type: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestLoadEmptyFileYieldsZeroChunks(t *testing.T) {
	loader := NewLoader(DefaultChunkSize, DefaultChunkOverlap)

	path := writeTempFile(t, "empty.txt", "")
	chunks, err := loader.Load(path, "txt", "sess-1", "empty.txt")
	if err != nil {
		t.Fatalf("load empty txt: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected zero chunks, got %d", len(chunks))
	}
}

func TestLoadUnsupportedType(t *testing.T) {
	loader := NewLoader(DefaultChunkSize, DefaultChunkOverlap)

	path := writeTempFile(t, "image.png", "not text")
	_, err := loader.Load(path, "png", "sess-1", "image.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(DefaultChunkSize, DefaultChunkOverlap)

	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.txt"), "txt", "sess-1", "nope.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

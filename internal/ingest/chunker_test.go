package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmptyInput(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)

	if got := s.Split(""); got != nil {
		t.Fatalf("expected nil chunks for empty input, got %d", len(got))
	}
	if got := s.Split("   \n\t  "); got != nil {
		t.Fatalf("expected nil chunks for whitespace input, got %d", len(got))
	}
}

func TestSplitShortInput(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)

	chunks := s.Split("a short paragraph")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short paragraph" {
		t.Fatalf("unexpected chunk text: %q", chunks[0])
	}
}

func TestSplitRespectsSizeBound(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)

	para := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
	text := strings.Repeat(para+"\n\n", 12)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	limit := DefaultChunkSize + DefaultChunkOverlap
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > limit {
			t.Fatalf("chunk %d has %d runes, limit %d", i, n, limit)
		}
	}
}

func TestHardSplitOverlap(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)

	// No separators at all forces rune-window splitting.
	text := strings.Repeat("abcdefghij", 300)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		tail := tailRunes(chunks[i-1], DefaultChunkOverlap)
		if !strings.HasPrefix(chunks[i], tail) {
			t.Fatalf("chunk %d does not start with previous chunk's overlap tail", i)
		}
	}
}

func TestMarkdownSplitterPrefersHeadings(t *testing.T) {
	s := NewMarkdownSplitter(DefaultChunkSize, DefaultChunkOverlap)

	section1 := "# Section One\n" + strings.Repeat("alpha beta gamma. ", 40)
	section2 := "# Section Two\n" + strings.Repeat("delta epsilon zeta. ", 40)
	text := section1 + "\n" + section2

	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if strings.Contains(chunks[0], "Section Two") {
		t.Fatalf("first chunk leaked into second section: %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "# Section Two") {
		t.Fatalf("second chunk missing its heading: %q", chunks[1])
	}
}

func TestChunkDocumentMetadata(t *testing.T) {
	s := NewRecursiveSplitter(100, 20)

	text := strings.Repeat("one two three four five. ", 30)
	chunks := s.ChunkDocument(text, "sess-1", "notes.txt")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.SessionID != "sess-1" || c.Source != "notes.txt" {
			t.Fatalf("chunk %d has wrong metadata: %+v", i, c)
		}
		if c.Index != i {
			t.Fatalf("chunk %d has index %d", i, c.Index)
		}
	}
}

func TestChunkDocumentEmpty(t *testing.T) {
	s := NewRecursiveSplitter(DefaultChunkSize, DefaultChunkOverlap)

	if chunks := s.ChunkDocument("", "sess-1", "empty.txt"); len(chunks) != 0 {
		t.Fatalf("expected zero chunks for empty document, got %d", len(chunks))
	}
}

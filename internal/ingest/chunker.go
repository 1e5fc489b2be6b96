package ingest

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// Chunk is one bounded text segment of a source document, tagged with the
// session and source it came from. Index is the position within the document.
type Chunk struct {
	Text      string
	SessionID string
	Source    string
	Index     int
}

// Splitter breaks text into size-bounded chunks along a preference-ordered
// list of separators, carrying a rune overlap between consecutive chunks.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveSplitter splits on paragraph, line and word boundaries. Used
// for unstructured text (txt, docx).
func NewRecursiveSplitter(chunkSize, overlap int) *Splitter {
	return newSplitter(chunkSize, overlap, []string{"\n\n", "\n", " "})
}

// NewMarkdownSplitter prefers markdown heading boundaries before falling back
// to the generic separators. Used for structured PDF output.
func NewMarkdownSplitter(chunkSize, overlap int) *Splitter {
	return newSplitter(chunkSize, overlap, []string{"\n# ", "\n## ", "\n### ", "\n\n", "\n", " "})
}

func newSplitter(chunkSize, overlap int, separators []string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: separators,
	}
}

// Split returns the chunk texts for the given input. Empty or all-whitespace
// input yields nil.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.merge(s.fragments(text, s.separators))
}

// ChunkDocument splits text and tags every chunk with session and source.
func (s *Splitter) ChunkDocument(text, sessionID, source string) []Chunk {
	parts := s.Split(text)
	if len(parts) == 0 {
		return nil
	}
	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{
			Text:      p,
			SessionID: sessionID,
			Source:    source,
			Index:     i,
		}
	}
	return chunks
}

// fragments recursively breaks text until every piece fits chunkSize,
// trying separators in preference order and keeping the separator attached
// so the merged text stays contiguous.
func (s *Splitter) fragments(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return s.hardSplit(text)
	}
	sep, rest := seps[0], seps[1:]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return s.fragments(text, rest)
	}
	var out []string
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part == "" {
			continue
		}
		out = append(out, s.fragments(part, rest)...)
	}
	return out
}

// hardSplit slices by rune windows when no separator helps. Windows do not
// overlap here; merge seeds the overlap tail between chunks.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.chunkSize
	var out []string
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// merge greedily packs fragments into chunks of at most chunkSize runes and
// seeds each new chunk with the previous chunk's overlap tail.
func (s *Splitter) merge(frags []string) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		chunk := strings.TrimSpace(cur.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		tail := tailRunes(cur.String(), s.overlap)
		cur.Reset()
		cur.WriteString(tail)
		curLen = utf8.RuneCountInString(tail)
	}

	for _, f := range frags {
		fl := utf8.RuneCountInString(f)
		if curLen > 0 && curLen+fl > s.chunkSize {
			flush()
		}
		cur.WriteString(f)
		curLen += fl
	}
	if final := strings.TrimSpace(cur.String()); final != "" {
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], final) {
			chunks = append(chunks, final)
		}
	}
	return chunks
}

func tailRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}

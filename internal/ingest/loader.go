package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for file types the loader cannot read.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// Loader reads a document from disk and returns its plain text together with
// the splitter suited to that format.
type Loader struct {
	chunkSize int
	overlap   int
}

func NewLoader(chunkSize, overlap int) *Loader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	return &Loader{chunkSize: chunkSize, overlap: overlap}
}

// Load reads the file at path according to the declared type and returns
// session-tagged chunks. An empty document yields zero chunks and no error.
func (l *Loader) Load(path, fileType, sessionID, source string) ([]Chunk, error) {
	var (
		text     string
		splitter *Splitter
		err      error
	)

	switch normalizeType(fileType) {
	case "pdf":
		// PDF extraction keeps heading-ish structure, so the markdown-aware
		// splitter gives better boundaries than the generic one.
		text, err = extractPDF(path)
		splitter = NewMarkdownSplitter(l.chunkSize, l.overlap)
	case "docx":
		text, err = extractDOCX(path)
		splitter = NewRecursiveSplitter(l.chunkSize, l.overlap)
	case "txt":
		text, err = readTextFile(path)
		splitter = NewRecursiveSplitter(l.chunkSize, l.overlap)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileType)
	}
	if err != nil {
		return nil, err
	}

	return splitter.ChunkDocument(text, sessionID, source), nil
}

func normalizeType(fileType string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), "."))
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text failed: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text failed: %w", err)
	}
	return string(out), nil
}

func extractDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx failed: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat docx failed: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parse docx failed: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		case *docx.Table:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file failed: %w", err)
	}
	return string(data), nil
}

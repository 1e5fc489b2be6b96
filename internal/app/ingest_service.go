package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lectern/internal/ai"
	"lectern/internal/ingest"
	"lectern/internal/model"
	"lectern/internal/platform/pinecone"
	"lectern/internal/session"
)

const defaultEmbeddingBatchSize = 100 // provider per-call input limit

// IngestService runs the write path: load, chunk, embed, upsert into the
// session's vector namespace, and register the document with the session's
// upstream assistant.
type IngestService struct {
	store     session.Store
	loader    *ingest.Loader
	llm       *ai.OpenAICompatibleClient
	embCfg    ai.EmbeddingConfig
	vectors   *pinecone.Client
	assistant *ai.AssistantClient
	asstCfg   ai.AssistantConfig
	batchSize int
}

func NewIngestService(
	store session.Store,
	loader *ingest.Loader,
	llm *ai.OpenAICompatibleClient,
	embCfg ai.EmbeddingConfig,
	vectors *pinecone.Client,
	assistant *ai.AssistantClient,
	asstCfg ai.AssistantConfig,
	batchSize int,
) *IngestService {
	if batchSize <= 0 {
		batchSize = defaultEmbeddingBatchSize
	}
	return &IngestService{
		store:     store,
		loader:    loader,
		llm:       llm,
		embCfg:    embCfg,
		vectors:   vectors,
		assistant: assistant,
		asstCfg:   asstCfg,
		batchSize: batchSize,
	}
}

// IngestInput describes one uploaded file already saved to a temp path.
type IngestInput struct {
	SessionID string
	FilePath  string
	FileType  string
	Filename  string
}

// IngestResult reports the registered document and how many vectors were
// stored for it.
type IngestResult struct {
	Document   model.DocumentRecord `json:"document"`
	ChunkCount int                  `json:"chunk_count"`
}

// Ingest runs the full pipeline for one upload. Any embedding, upsert or
// assistant error aborts the whole ingestion; there is no partial-success
// accounting. An empty document stores zero vectors and still succeeds.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" || strings.TrimSpace(input.Filename) == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.ensureSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	chunks, err := s.loader.Load(input.FilePath, input.FileType, sessionID, input.Filename)
	if err != nil {
		return nil, err
	}

	stored, err := s.embedAndStore(ctx, sessionID, chunks)
	if err != nil {
		return nil, err
	}

	// Register the document with the assistant so thread Q&A can ground on
	// it through the provider's memory retrieval.
	docID, err := s.assistant.UploadDocument(ctx, s.asstCfg, sess.AssistantID, input.FilePath)
	if err != nil {
		return nil, err
	}
	if err := s.assistant.WaitForDocumentIndexed(ctx, s.asstCfg, docID); err != nil {
		return nil, err
	}

	record := model.DocumentRecord{
		ID:         docID,
		Filename:   input.Filename,
		ChunkCount: stored,
		UploadedAt: time.Now(),
	}
	sess.Documents = append(sess.Documents, record)
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	return &IngestResult{Document: record, ChunkCount: stored}, nil
}

// ensureSession returns the existing session or creates the upstream
// assistant/thread pair and registers a new one.
func (s *IngestService) ensureSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, err
	}

	assistantID, err := s.assistant.CreateAssistant(ctx, s.asstCfg, "lectern-"+sessionID, "Instructor grounded in the session's uploaded documents")
	if err != nil {
		return nil, err
	}
	threadID, err := s.assistant.CreateThread(ctx, s.asstCfg, assistantID)
	if err != nil {
		return nil, err
	}

	sess = &model.Session{
		ID:          sessionID,
		AssistantID: assistantID,
		ThreadID:    threadID,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// embedAndStore embeds chunk texts in provider-sized batches and upserts the
// vectors under the session's namespace with deterministic ids, so
// re-ingesting the same document overwrites rather than duplicates.
func (s *IngestService) embedAndStore(ctx context.Context, sessionID string, chunks []ingest.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	total := 0
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		embeddings, err := s.llm.EmbedBatch(ctx, s.embCfg, texts)
		if err != nil {
			return 0, err
		}

		vectors := make([]pinecone.Vector, len(batch))
		for i, c := range batch {
			vectors[i] = pinecone.Vector{
				ID:     VectorID(sessionID, c.Source, c.Index),
				Values: embeddings[i],
				Metadata: map[string]string{
					"text":       c.Text,
					"session_id": c.SessionID,
					"source":     c.Source,
				},
			}
		}

		count, err := s.vectors.Upsert(ctx, sessionID, vectors)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// VectorID builds the deterministic composite key for one chunk.
func VectorID(sessionID, source string, index int) string {
	return fmt.Sprintf("%s#%s#chunk_%d", sessionID, strings.ReplaceAll(source, " ", "_"), index)
}

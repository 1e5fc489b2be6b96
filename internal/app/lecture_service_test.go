package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"lectern/internal/ai"
	"lectern/internal/model"
	"lectern/internal/platform/pinecone"
	"lectern/internal/session"
)

func newLectureService(store session.Store, base string) *LectureService {
	return NewLectureService(
		store,
		ai.NewOpenAICompatibleClient(),
		ai.ChatConfig{BaseURL: base, Model: "gpt-4o"},
		ai.EmbeddingConfig{BaseURL: base, Model: "text-embedding-3-large", Dimensions: 3},
		pinecone.NewClient(pinecone.Config{IndexHost: base, APIKey: "test"}),
		5,
	)
}

func putSessionWithDocs(t *testing.T, store session.Store, id string) {
	t.Helper()
	err := store.Put(context.Background(), &model.Session{
		ID:          id,
		AssistantID: "asst-1",
		ThreadID:    "thread-1",
		Documents: []model.DocumentRecord{
			{ID: "doc-1", Filename: "notes.txt", ChunkCount: 3, UploadedAt: time.Now()},
		},
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestGenerateLectureUnknownSessionReturnsPlaceholder(t *testing.T) {
	fake := newFakeUpstreams()
	srv := fake.server(t)
	svc := newLectureService(session.NewMemoryStore(), srv.URL)

	lecture, err := svc.Generate(context.Background(), "ghost", "pointers")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if lecture.SessionID != "ghost" || lecture.Topic != "pointers" {
		t.Fatalf("unexpected lecture: %+v", lecture)
	}
	if len(lecture.SlideContent) != 0 {
		t.Fatalf("expected no slides, got %v", lecture.SlideContent)
	}
	if !strings.Contains(lecture.LectureScript, "No documents have been ingested") {
		t.Fatalf("unexpected script: %q", lecture.LectureScript)
	}
	if len(fake.queryNS) != 0 {
		t.Fatal("retrieval should not run for an unknown session")
	}
}

func TestGenerateLectureSessionWithoutDocumentsReturnsPlaceholder(t *testing.T) {
	fake := newFakeUpstreams()
	srv := fake.server(t)
	store := session.NewMemoryStore()
	if err := store.Put(context.Background(), &model.Session{ID: "sess-1", AssistantID: "asst-1", ThreadID: "thread-1"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	svc := newLectureService(store, srv.URL)

	lecture, err := svc.Generate(context.Background(), "sess-1", "pointers")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(lecture.LectureScript, "No documents have been ingested") {
		t.Fatalf("unexpected script: %q", lecture.LectureScript)
	}
}

func TestGenerateLectureParsesStructuredCompletion(t *testing.T) {
	fake := newFakeUpstreams()
	fake.matches = []pinecone.Match{
		{ID: "sess-1#notes.txt#chunk_0", Score: 0.9, Metadata: map[string]string{"text": "Pointers hold addresses."}},
		{ID: "sess-1#notes.txt#chunk_1", Score: 0.8, Metadata: map[string]string{"text": "nil is the zero pointer."}},
	}
	fake.completion = "```json\n{\"slide_content\": [\"What a pointer is\", \"The nil pointer\"], \"lecture_script\": \"Today we look at pointers.\"}\n```"
	srv := fake.server(t)

	store := session.NewMemoryStore()
	putSessionWithDocs(t, store, "sess-1")
	svc := newLectureService(store, srv.URL)

	lecture, err := svc.Generate(context.Background(), "sess-1", "pointers")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(lecture.SlideContent) != 2 || lecture.SlideContent[0] != "What a pointer is" {
		t.Fatalf("unexpected slides: %v", lecture.SlideContent)
	}
	if lecture.LectureScript != "Today we look at pointers." {
		t.Fatalf("unexpected script: %q", lecture.LectureScript)
	}
	if len(fake.queryNS) != 1 || fake.queryNS[0] != "sess-1" {
		t.Fatalf("retrieval should target the session namespace, got %v", fake.queryNS)
	}
}

func TestGenerateLectureUnstructuredCompletionFallsBack(t *testing.T) {
	fake := newFakeUpstreams()
	fake.matches = []pinecone.Match{
		{ID: "sess-1#notes.txt#chunk_0", Score: 0.9, Metadata: map[string]string{"text": "Pointers hold addresses."}},
	}
	fake.completion = "Pointers are variables that store memory addresses."
	srv := fake.server(t)

	store := session.NewMemoryStore()
	putSessionWithDocs(t, store, "sess-1")
	svc := newLectureService(store, srv.URL)

	lecture, err := svc.Generate(context.Background(), "sess-1", "pointers")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if lecture.LectureScript != fake.completion {
		t.Fatalf("raw completion should become the script, got %q", lecture.LectureScript)
	}
	if len(lecture.SlideContent) != 1 {
		t.Fatalf("expected the placeholder slide, got %v", lecture.SlideContent)
	}
}

func TestGenerateLectureValidatesInput(t *testing.T) {
	fake := newFakeUpstreams()
	srv := fake.server(t)
	svc := newLectureService(session.NewMemoryStore(), srv.URL)

	if _, err := svc.Generate(context.Background(), "", "topic"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Generate(context.Background(), "sess-1", "  "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

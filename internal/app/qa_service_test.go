package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lectern/internal/ai"
	"lectern/internal/audio"
	"lectern/internal/session"
)

func newSpeechService(t *testing.T, base string) *SpeechService {
	t.Helper()
	cache, err := audio.NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("audio cache: %v", err)
	}
	return NewSpeechService(
		ai.NewElevenLabsClient(),
		ai.TTSConfig{BaseURL: base, VoiceID: "voice-1", ModelID: "eleven_multilingual_v2"},
		ai.NewOpenAICompatibleClient(),
		ai.TranscribeConfig{BaseURL: base, Model: "whisper-1"},
		cache,
		"http://localhost:8080",
	)
}

func newQAService(t *testing.T, store session.Store, base string) *QAService {
	t.Helper()
	return NewQAService(
		store,
		ai.NewAssistantClient(),
		ai.AssistantConfig{BaseURL: base, Model: "gpt-4o", LLMProvider: "openai"},
		newSpeechService(t, base),
	)
}

func TestAskReturnsAnswerWithAudioAndSources(t *testing.T) {
	fake := newFakeUpstreams()
	srv := fake.server(t)
	store := session.NewMemoryStore()
	putSessionWithDocs(t, store, "sess-1")
	svc := newQAService(t, store, srv.URL)

	result, err := svc.Ask(context.Background(), "sess-1", "What is a pointer?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if result.Answer != "the answer" {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
	if result.SessionID != "sess-1" {
		t.Fatalf("unexpected session id echo: %q", result.SessionID)
	}
	if result.Question != "What is a pointer?" {
		t.Fatalf("unexpected question echo: %q", result.Question)
	}
	if !strings.HasPrefix(result.AudioURL, "http://localhost:8080/audio/sess-1_") {
		t.Fatalf("unexpected audio url: %q", result.AudioURL)
	}
	if len(result.SourceDocuments) != 1 || result.SourceDocuments[0] != "notes.txt" {
		t.Fatalf("unexpected sources: %v", result.SourceDocuments)
	}
	if len(fake.threadMessages) != 1 || fake.threadMessages[0] != "What is a pointer?" {
		t.Fatalf("question not relayed to thread: %v", fake.threadMessages)
	}
}

func TestAskUnknownSessionFails(t *testing.T) {
	fake := newFakeUpstreams()
	srv := fake.server(t)
	svc := newQAService(t, session.NewMemoryStore(), srv.URL)

	_, err := svc.Ask(context.Background(), "ghost", "anything")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAskDegradesWhenTTSFails(t *testing.T) {
	fake := newFakeUpstreams()
	fake.ttsStatus = 500
	srv := fake.server(t)
	store := session.NewMemoryStore()
	putSessionWithDocs(t, store, "sess-1")
	svc := newQAService(t, store, srv.URL)

	result, err := svc.Ask(context.Background(), "sess-1", "What is a pointer?")
	if err != nil {
		t.Fatalf("ask should survive tts failure: %v", err)
	}
	if result.Answer != "the answer" {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
	if result.AudioURL != "" {
		t.Fatalf("expected empty audio url, got %q", result.AudioURL)
	}
}

func TestAskAudioTranscribesThenAnswers(t *testing.T) {
	fake := newFakeUpstreams()
	fake.transcript = "What is a slice?"
	srv := fake.server(t)
	store := session.NewMemoryStore()
	putSessionWithDocs(t, store, "sess-1")
	svc := newQAService(t, store, srv.URL)

	result, err := svc.AskAudio(context.Background(), "sess-1", strings.NewReader("fake-wav"), "question.wav")
	if err != nil {
		t.Fatalf("ask audio: %v", err)
	}
	if result.Question != "What is a slice?" {
		t.Fatalf("transcript not used as question: %q", result.Question)
	}
	if result.Answer != "the answer" {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
}

func TestAskAudioEmptyTranscriptFails(t *testing.T) {
	fake := newFakeUpstreams()
	fake.transcript = ""
	srv := fake.server(t)
	store := session.NewMemoryStore()
	putSessionWithDocs(t, store, "sess-1")
	svc := newQAService(t, store, srv.URL)

	_, err := svc.AskAudio(context.Background(), "sess-1", strings.NewReader("fake-wav"), "question.wav")
	if !errors.Is(err, ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
}

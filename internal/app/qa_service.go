package app

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"lectern/internal/ai"
	"lectern/internal/session"
)

// QAService answers follow-up questions on the session's conversation
// thread. Document grounding is delegated to the assistant provider's
// memory retrieval; no explicit vector search happens here.
type QAService struct {
	store     session.Store
	assistant *ai.AssistantClient
	asstCfg   ai.AssistantConfig
	speech    *SpeechService
}

func NewQAService(store session.Store, assistant *ai.AssistantClient, asstCfg ai.AssistantConfig, speech *SpeechService) *QAService {
	return &QAService{
		store:     store,
		assistant: assistant,
		asstCfg:   asstCfg,
		speech:    speech,
	}
}

// QAResult carries the answer plus the spoken rendition and the session's
// source documents.
type QAResult struct {
	SessionID       string   `json:"session_id"`
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	AudioURL        string   `json:"audio_url"`
	SourceDocuments []string `json:"source_documents"`
}

// Ask sends the question to the session's thread and synthesizes the answer.
// TTS failure degrades to an empty audio URL rather than failing the whole
// request.
func (s *QAService) Ask(ctx context.Context, sessionID, question string) (*QAResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	question = strings.TrimSpace(question)
	if sessionID == "" || question == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	answer, err := s.assistant.SendMessage(ctx, s.asstCfg, sess.ThreadID, question)
	if err != nil {
		return nil, err
	}

	audioURL := ""
	if url, err := s.speech.SynthesizeToURL(ctx, sessionID, answer); err != nil {
		log.Printf("qa answer tts failed for session %s: %v", sessionID, err)
	} else {
		audioURL = url
	}

	return &QAResult{
		SessionID:       sessionID,
		Question:        question,
		Answer:          strings.TrimSpace(answer),
		AudioURL:        audioURL,
		SourceDocuments: sess.SourceNames(),
	}, nil
}

// AskAudio transcribes the uploaded audio and answers the resulting question.
func (s *QAService) AskAudio(ctx context.Context, sessionID string, audio io.Reader, filename string) (*QAResult, error) {
	question, err := s.speech.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, err
	}
	return s.Ask(ctx, sessionID, question)
}

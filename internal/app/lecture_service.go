package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/ai"
	"lectern/internal/model"
	"lectern/internal/platform/pinecone"
	"lectern/internal/session"
)

const lectureSystemPrompt = "You are a Senior Technical Instructor. Create a brief, engaging lecture. " +
	"Use ONLY the provided context. If context is missing, say 'Information not found'. " +
	"You must return a JSON object with two keys: " +
	"'slide_content' (a list of 3-5 bullet points) and " +
	"'lecture_script' (a conversational 2-minute script for the audio)."

const contextSeparator = "\n\n---\n\n"

// LectureService turns a topic into a structured lecture grounded in the
// session's ingested documents.
type LectureService struct {
	store   session.Store
	llm     *ai.OpenAICompatibleClient
	chatCfg ai.ChatConfig
	embCfg  ai.EmbeddingConfig
	vectors *pinecone.Client
	topK    int
}

func NewLectureService(
	store session.Store,
	llm *ai.OpenAICompatibleClient,
	chatCfg ai.ChatConfig,
	embCfg ai.EmbeddingConfig,
	vectors *pinecone.Client,
	topK int,
) *LectureService {
	if topK <= 0 {
		topK = 5
	}
	return &LectureService{
		store:   store,
		llm:     llm,
		chatCfg: chatCfg,
		embCfg:  embCfg,
		vectors: vectors,
		topK:    topK,
	}
}

// Generate retrieves the topic's top-k chunks from the session namespace and
// asks the model for structured lecture content.
//
// A session with no prior upload does not fail: the lecture comes back with
// no slides and an explanatory script, so the endpoint can always answer
// with a response-shaped payload. Upstream failures (embedding, query, LLM)
// are returned as errors.
func (s *LectureService) Generate(ctx context.Context, sessionID, topic string) (*model.Lecture, error) {
	sessionID = strings.TrimSpace(sessionID)
	topic = strings.TrimSpace(topic)
	if sessionID == "" || topic == "" {
		return nil, ErrInvalidInput
	}

	lecture := &model.Lecture{
		SessionID:    sessionID,
		Topic:        topic,
		SlideContent: []string{},
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			lecture.LectureScript = fmt.Sprintf("No documents have been ingested for session %s. Upload a document before requesting a lecture.", sessionID)
			return lecture, nil
		}
		return nil, err
	}
	if !sess.HasDocuments() {
		lecture.LectureScript = fmt.Sprintf("No documents have been ingested for session %s. Upload a document before requesting a lecture.", sessionID)
		return lecture, nil
	}

	queryVec, err := s.llm.Embed(ctx, s.embCfg, topic)
	if err != nil {
		return nil, err
	}
	matches, err := s.vectors.Query(ctx, sessionID, queryVec, s.topK)
	if err != nil {
		return nil, err
	}

	contextText := buildContextBlock(matches)

	messages := []ai.ChatMessage{
		{Role: "system", Content: lectureSystemPrompt},
		{Role: "user", Content: "Context: " + contextText + "\n\nTopic: " + topic + "\n\nReturn JSON format."},
	}
	completion, err := s.llm.Complete(ctx, s.chatCfg, messages)
	if err != nil {
		return nil, err
	}

	content := ParseLectureCompletion(completion)
	lecture.SlideContent = content.SlideContent
	lecture.LectureScript = content.LectureScript
	return lecture, nil
}

// buildContextBlock concatenates retrieved chunk texts with a separator.
func buildContextBlock(matches []pinecone.Match) string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := m.Metadata["text"]; t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, contextSeparator)
}

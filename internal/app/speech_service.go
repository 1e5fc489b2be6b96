package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"lectern/internal/ai"
	"lectern/internal/audio"
)

// SpeechService wraps text-to-speech and speech-to-text behind the audio
// artifact cache.
type SpeechService struct {
	tts           *ai.ElevenLabsClient
	ttsCfg        ai.TTSConfig
	llm           *ai.OpenAICompatibleClient
	transcribeCfg ai.TranscribeConfig
	cache         *audio.Cache
	baseURL       string
}

func NewSpeechService(
	tts *ai.ElevenLabsClient,
	ttsCfg ai.TTSConfig,
	llm *ai.OpenAICompatibleClient,
	transcribeCfg ai.TranscribeConfig,
	cache *audio.Cache,
	baseURL string,
) *SpeechService {
	return &SpeechService{
		tts:           tts,
		ttsCfg:        ttsCfg,
		llm:           llm,
		transcribeCfg: transcribeCfg,
		cache:         cache,
		baseURL:       baseURL,
	}
}

// SynthesizeToURL converts text to speech, stores the artifact under the
// session's key and returns the served URL. The whole file is materialized
// before returning.
func (s *SpeechService) SynthesizeToURL(ctx context.Context, sessionID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrInvalidInput
	}
	data, err := s.tts.Synthesize(ctx, s.ttsCfg, text)
	if err != nil {
		return "", err
	}
	name, err := s.cache.Save(sessionID, data)
	if err != nil {
		return "", err
	}
	return s.cache.URL(s.baseURL, name), nil
}

// Transcribe converts uploaded audio to text.
func (s *SpeechService) Transcribe(ctx context.Context, r io.Reader, filename string) (string, error) {
	text, err := s.llm.Transcribe(ctx, s.transcribeCfg, r, filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", ErrTranscriptionFailed)
	}
	return text, nil
}

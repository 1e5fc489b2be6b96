package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TTSConfig holds API settings for ElevenLabs-style text-to-speech.
type TTSConfig struct {
	BaseURL      string
	APIKey       string
	VoiceID      string
	ModelID      string
	OutputFormat string
}

// ElevenLabsClient synthesizes speech through the ElevenLabs REST API.
type ElevenLabsClient struct {
	httpClient *http.Client
}

func NewElevenLabsClient() *ElevenLabsClient {
	return &ElevenLabsClient{
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Synthesize converts text to audio and returns the raw audio bytes (mp3 for
// the default output format). The full payload is materialized before return.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, cfg TTSConfig, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("tts input is empty")
	}

	reqBody := map[string]interface{}{
		"text":     text,
		"model_id": cfg.ModelID,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request failed: %w", err)
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(cfg.VoiceID)
	if cfg.OutputFormat != "" {
		endpoint += "?output_format=" + url.QueryEscape(cfg.OutputFormat)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build tts request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts response status %d: %s", resp.StatusCode, string(raw))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio failed: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty tts audio in response")
	}
	return audio, nil
}

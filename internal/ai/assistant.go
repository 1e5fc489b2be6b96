package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AssistantConfig holds API settings for the conversational assistant
// provider (Backboard-compatible).
type AssistantConfig struct {
	BaseURL      string
	APIKey       string
	LLMProvider  string
	Model        string
	IndexTimeout time.Duration
}

// ErrIndexingTimeout is returned when a document does not reach the indexed
// state before the configured deadline.
var ErrIndexingTimeout = errors.New("document indexing timed out")

// ErrIndexingFailed is returned when the provider reports a failed indexing job.
var ErrIndexingFailed = errors.New("document indexing failed")

// AssistantClient manages assistants, threads and assistant-side document
// indexing over the provider's REST API.
type AssistantClient struct {
	httpClient *http.Client
}

func NewAssistantClient() *AssistantClient {
	return &AssistantClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// CreateAssistant creates a new assistant and returns its id.
func (c *AssistantClient) CreateAssistant(ctx context.Context, cfg AssistantConfig, name, description string) (string, error) {
	if description == "" {
		description = "A helpful assistant"
	}
	var out struct {
		AssistantID string `json:"assistant_id"`
	}
	err := c.postJSON(ctx, cfg, "/assistants", map[string]interface{}{
		"name":        name,
		"description": description,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("create assistant failed: %w", err)
	}
	if out.AssistantID == "" {
		return "", fmt.Errorf("create assistant returned empty id")
	}
	return out.AssistantID, nil
}

// CreateThread creates a conversation thread bound to the assistant.
func (c *AssistantClient) CreateThread(ctx context.Context, cfg AssistantConfig, assistantID string) (string, error) {
	var out struct {
		ThreadID string `json:"thread_id"`
	}
	path := "/assistants/" + url.PathEscape(assistantID) + "/threads"
	if err := c.postJSON(ctx, cfg, path, map[string]interface{}{}, &out); err != nil {
		return "", fmt.Errorf("create thread failed: %w", err)
	}
	if out.ThreadID == "" {
		return "", fmt.Errorf("create thread returned empty id")
	}
	return out.ThreadID, nil
}

// SendMessage posts a user message to the thread with automatic memory
// retrieval enabled and returns the assistant's reply verbatim.
func (c *AssistantClient) SendMessage(ctx context.Context, cfg AssistantConfig, threadID, content string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	path := "/threads/" + url.PathEscape(threadID) + "/messages"
	err := c.postJSON(ctx, cfg, path, map[string]interface{}{
		"content":      content,
		"llm_provider": cfg.LLMProvider,
		"model_name":   cfg.Model,
		"memory":       "Auto",
		"stream":       false,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("send message failed: %w", err)
	}
	return out.Content, nil
}

// UploadDocument uploads the file at path to the assistant and returns the
// provider's document id. Indexing happens asynchronously; see
// WaitForDocumentIndexed.
func (c *AssistantClient) UploadDocument(ctx context.Context, cfg AssistantConfig, assistantID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open upload file failed: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create multipart file failed: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy upload data failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer failed: %w", err)
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/assistants/" + url.PathEscape(assistantID) + "/documents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build upload request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload document failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload response status %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse upload json failed: %w", err)
	}
	if out.DocumentID == "" {
		return "", fmt.Errorf("upload returned empty document id")
	}
	return out.DocumentID, nil
}

// GetDocumentStatus returns the indexing status of an uploaded document.
func (c *AssistantClient) GetDocumentStatus(ctx context.Context, cfg AssistantConfig, documentID string) (string, string, error) {
	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/documents/" + url.PathEscape(documentID) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("build status request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read status response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("status response status %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		Status        string `json:"status"`
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", "", fmt.Errorf("parse status json failed: %w", err)
	}
	return out.Status, out.StatusMessage, nil
}

// WaitForDocumentIndexed polls the document status with exponential backoff
// until it is indexed, fails, the configured timeout elapses, or ctx is
// cancelled.
func (c *AssistantClient) WaitForDocumentIndexed(ctx context.Context, cfg AssistantConfig, documentID string) error {
	timeout := cfg.IndexTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := 500 * time.Millisecond
	const maxDelay = 5 * time.Second

	for {
		status, message, err := c.GetDocumentStatus(waitCtx, cfg, documentID)
		if err != nil {
			if waitCtx.Err() != nil {
				return fmt.Errorf("%w: %v", ErrIndexingTimeout, waitCtx.Err())
			}
			return err
		}
		switch status {
		case "indexed":
			return nil
		case "failed":
			return fmt.Errorf("%w: %s", ErrIndexingFailed, message)
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("%w after %s", ErrIndexingTimeout, timeout)
		case <-time.After(delay):
		}
		if delay < maxDelay {
			delay *= 2
		}
	}
}

func (c *AssistantClient) postJSON(ctx context.Context, cfg AssistantConfig, path string, body, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("response status %d: %s", resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse response json failed: %w", err)
		}
	}
	return nil
}

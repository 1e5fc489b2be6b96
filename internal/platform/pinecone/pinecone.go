package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal REST client to a Pinecone index's data plane.
// The namespace passed to each call is the sole tenant-isolation mechanism:
// vectors written under one namespace are never returned for another.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	IndexHost string
	APIKey    string
	Timeout   time.Duration
}

// Vector is one upsert record: a deterministic id, the embedding values and
// the chunk metadata stored alongside them.
type Vector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Match is one nearest-neighbor result with its similarity score.
type Match struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		host:       strings.TrimRight(cfg.IndexHost, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upsert writes vectors into the given namespace and returns the stored
// count. Existing ids are overwritten, not duplicated.
func (c *Client) Upsert(ctx context.Context, namespace string, vectors []Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	body := map[string]interface{}{
		"vectors":   vectors,
		"namespace": namespace,
	}
	var out struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	if err := c.postJSON(ctx, "/vectors/upsert", body, &out); err != nil {
		return 0, fmt.Errorf("pinecone upsert failed: %w", err)
	}
	return out.UpsertedCount, nil
}

// Query returns up to topK nearest neighbors within the namespace, with
// stored metadata attached.
func (c *Client) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	body := map[string]interface{}{
		"vector":          vector,
		"topK":            topK,
		"namespace":       namespace,
		"includeMetadata": true,
	}
	var out struct {
		Matches []Match `json:"matches"`
	}
	if err := c.postJSON(ctx, "/query", body, &out); err != nil {
		return nil, fmt.Errorf("pinecone query failed: %w", err)
	}
	return out.Matches, nil
}

// DeleteNamespace removes every vector stored under the namespace.
func (c *Client) DeleteNamespace(ctx context.Context, namespace string) error {
	body := map[string]interface{}{
		"deleteAll": true,
		"namespace": namespace,
	}
	if err := c.postJSON(ctx, "/vectors/delete", body, nil); err != nil {
		return fmt.Errorf("pinecone delete namespace failed: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

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

package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RoutePrefix is the public mount point for stored artifacts.
const RoutePrefix = "/audio"

// Cache stores synthesized audio files on local disk, keyed by
// "{session_id}_{random_id}.mp3". Files are never cleaned up; callers serve
// them from a static mount.
type Cache struct {
	dir string
}

func NewCache(dir string) (*Cache, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve audio dir failed: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir failed: %w", err)
	}
	return &Cache{dir: abs}, nil
}

// Dir returns the absolute directory backing the cache.
func (c *Cache) Dir() string {
	return c.dir
}

// Save writes the audio bytes under a fresh session-scoped filename and
// returns that filename.
func (c *Cache) Save(sessionID string, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%s.mp3", sanitize(sessionID), uuid.NewString())
	if err := os.WriteFile(filepath.Join(c.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write audio file failed: %w", err)
	}
	return name, nil
}

// URL joins the public base URL with the artifact's served path.
func (c *Cache) URL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + RoutePrefix + "/" + filename
}

// sanitize keeps session ids safe to embed in a filename.
func sanitize(id string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	out := replacer.Replace(id)
	if out == "" {
		out = "session"
	}
	return out
}

package model

import "time"

// Session ties a client-chosen session identifier to the upstream
// assistant/thread pair and the documents uploaded under it.
type Session struct {
	ID          string           `json:"id"`
	AssistantID string           `json:"assistant_id"`
	ThreadID    string           `json:"thread_id"`
	Documents   []DocumentRecord `json:"documents"`
	CreatedAt   time.Time        `json:"created_at"`
}

// HasDocuments reports whether at least one document was ingested.
func (s *Session) HasDocuments() bool {
	return s != nil && len(s.Documents) > 0
}

// SourceNames returns the filenames of all ingested documents, in upload order.
func (s *Session) SourceNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Documents))
	for _, d := range s.Documents {
		names = append(names, d.Filename)
	}
	return names
}

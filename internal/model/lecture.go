package model

// Lecture is the structured output of lecture generation. It is ephemeral:
// built per request, never persisted.
type Lecture struct {
	SessionID     string   `json:"session_id"`
	Topic         string   `json:"topic"`
	SlideContent  []string `json:"slide_content"`
	LectureScript string   `json:"lecture_script"`
}

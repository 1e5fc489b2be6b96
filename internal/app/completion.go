package app

import (
	"encoding/json"
	"strings"
)

// LectureContent is the structured shape the lecture prompt asks the model
// to return.
type LectureContent struct {
	SlideContent  []string `json:"slide_content"`
	LectureScript string   `json:"lecture_script"`
}

// fallbackSlide is the single bullet used when the completion cannot be
// parsed as structured content.
const fallbackSlide = "Lecture overview (structured slides unavailable)"

// ParseLectureCompletion extracts structured lecture content from a raw LLM
// completion. It tolerates markdown code-fence wrapping and leading/trailing
// prose around the JSON object. If no JSON object can be recovered, the raw
// completion text becomes the lecture script and a placeholder bullet the
// only slide, so the caller always gets usable content.
func ParseLectureCompletion(raw string) LectureContent {
	text := stripCodeFences(raw)

	if obj := extractJSONObject(text); obj != "" {
		var content LectureContent
		if err := json.Unmarshal([]byte(obj), &content); err == nil {
			if content.LectureScript != "" || len(content.SlideContent) > 0 {
				return content
			}
		}
	}

	return LectureContent{
		SlideContent:  []string{fallbackSlide},
		LectureScript: strings.TrimSpace(raw),
	}
}

// stripCodeFences removes a surrounding ```...``` block, including an
// optional language tag on the opening fence.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// extractJSONObject returns the outermost brace-delimited span, or "" when
// no braces are present.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

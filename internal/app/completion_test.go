package app

import (
	"strings"
	"testing"
)

func TestParseBareJSON(t *testing.T) {
	raw := `{"slide_content": ["Point A", "Point B", "Point C"], "lecture_script": "Welcome to the lecture."}`

	content := ParseLectureCompletion(raw)
	if len(content.SlideContent) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(content.SlideContent))
	}
	if content.LectureScript != "Welcome to the lecture." {
		t.Fatalf("unexpected script: %q", content.LectureScript)
	}
}

func TestParseFencedJSONMatchesBare(t *testing.T) {
	bare := `{"slide_content": ["A", "B", "C"], "lecture_script": "Script."}`
	fenced := "```json\n" + bare + "\n```"

	fromBare := ParseLectureCompletion(bare)
	fromFenced := ParseLectureCompletion(fenced)

	if fromFenced.LectureScript != fromBare.LectureScript {
		t.Fatalf("fenced script %q != bare script %q", fromFenced.LectureScript, fromBare.LectureScript)
	}
	if len(fromFenced.SlideContent) != len(fromBare.SlideContent) {
		t.Fatalf("fenced slides %d != bare slides %d", len(fromFenced.SlideContent), len(fromBare.SlideContent))
	}
}

func TestParseFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"slide_content\": [\"A\"], \"lecture_script\": \"S\"}\n```"

	content := ParseLectureCompletion(raw)
	if content.LectureScript != "S" {
		t.Fatalf("unexpected script: %q", content.LectureScript)
	}
}

func TestParseJSONWithSurroundingProse(t *testing.T) {
	raw := "Here is your lecture:\n{\"slide_content\": [\"A\", \"B\"], \"lecture_script\": \"S\"}\nHope that helps!"

	content := ParseLectureCompletion(raw)
	if len(content.SlideContent) != 2 || content.LectureScript != "S" {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestParseNonJSONFallsBackToRawScript(t *testing.T) {
	raw := "I could not produce JSON, but here is the lecture as plain prose."

	content := ParseLectureCompletion(raw)
	if content.LectureScript != raw {
		t.Fatalf("expected raw completion as script, got %q", content.LectureScript)
	}
	if len(content.SlideContent) != 1 {
		t.Fatalf("expected a single placeholder slide, got %d", len(content.SlideContent))
	}
}

func TestParseBrokenJSONFallsBack(t *testing.T) {
	raw := `{"slide_content": ["unterminated`

	content := ParseLectureCompletion(raw)
	if !strings.Contains(content.LectureScript, "unterminated") {
		t.Fatalf("expected raw text preserved in script, got %q", content.LectureScript)
	}
	if len(content.SlideContent) != 1 {
		t.Fatalf("expected placeholder slide, got %+v", content.SlideContent)
	}
}

func TestParseEmptyObjectFallsBack(t *testing.T) {
	content := ParseLectureCompletion("{}")
	if len(content.SlideContent) != 1 {
		t.Fatalf("expected placeholder slide for empty object, got %+v", content.SlideContent)
	}
}

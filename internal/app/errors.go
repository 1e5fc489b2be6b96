package app

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSessionNotFound     = errors.New("session not found")
	ErrTranscriptionFailed = errors.New("audio transcription failed")
)

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lectern/internal/app"
	"lectern/internal/transport/http/response"
)

type LectureHandler struct {
	lectureService *app.LectureService
	speechService  *app.SpeechService
}

type GenerateLectureRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Topic     string `json:"topic" binding:"required"`
}

type GenerateLectureAudioRequest struct {
	SessionID     string `json:"session_id" binding:"required"`
	Topic         string `json:"topic"`
	LectureScript string `json:"lecture_script" binding:"required"`
}

func NewLectureHandler(lectureService *app.LectureService, speechService *app.SpeechService) *LectureHandler {
	return &LectureHandler{lectureService: lectureService, speechService: speechService}
}

// GenerateLecture builds a slide deck and script for the topic from the
// session's documents. A session without documents still answers 200 with an
// explanatory script so the caller always gets a lecture-shaped payload.
func (h *LectureHandler) GenerateLecture(c *gin.Context) {
	var req GenerateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	lecture, err := h.lectureService.Generate(c.Request.Context(), req.SessionID, req.Topic)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate lecture failed")
		}
		return
	}
	response.OK(c, lecture)
}

// GenerateLectureAudio synthesizes an already generated lecture script and
// returns the served audio URL.
func (h *LectureHandler) GenerateLectureAudio(c *gin.Context) {
	var req GenerateLectureAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	audioURL, err := h.speechService.SynthesizeToURL(c.Request.Context(), req.SessionID, req.LectureScript)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "synthesize audio failed")
		}
		return
	}

	response.OK(c, gin.H{
		"session_id":     req.SessionID,
		"topic":          req.Topic,
		"lecture_script": req.LectureScript,
		"audio_url":      audioURL,
	})
}

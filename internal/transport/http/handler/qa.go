package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lectern/internal/app"
	"lectern/internal/transport/http/response"
)

type QAHandler struct {
	qaService *app.QAService
}

type AskQuestionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

func NewQAHandler(qaService *app.QAService) *QAHandler {
	return &QAHandler{qaService: qaService}
}

// AskQuestion relays the question to the session's assistant thread.
func (h *QAHandler) AskQuestion(c *gin.Context) {
	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.qaService.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		h.writeAskError(c, err)
		return
	}
	response.OK(c, result)
}

// AskQuestionAudio accepts a multipart form with "session_id" and
// "audio_file", transcribes the recording and answers the question it
// contains.
func (h *QAHandler) AskQuestionAudio(c *gin.Context) {
	sessionID := strings.TrimSpace(c.PostForm("session_id"))
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing session_id")
		return
	}
	file, err := c.FormFile("audio_file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing audio_file")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read audio failed")
		return
	}
	defer f.Close()

	result, err := h.qaService.AskAudio(c.Request.Context(), sessionID, f, file.Filename)
	if err != nil {
		h.writeAskError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *QAHandler) writeAskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, "session not found")
	case errors.Is(err, app.ErrTranscriptionFailed):
		response.Error(c, http.StatusInternalServerError, response.CodeTranscriptionFailed, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "answer question failed")
	}
}

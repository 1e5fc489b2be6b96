package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lectern/internal/app"
	"lectern/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// GetDocuments lists the session's ingested documents.
func (h *SessionHandler) GetDocuments(c *gin.Context) {
	sessionID := c.Param("session_id")

	docs, err := h.sessionService.Documents(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id")
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, "session not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		}
		return
	}

	response.OK(c, gin.H{
		"session_id": sessionID,
		"documents":  docs,
		"count":      len(docs),
	})
}

// DeleteSession removes the session and its vectors. Unknown sessions still
// answer success.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.sessionService.Delete(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete session failed")
		}
		return
	}

	response.OK(c, gin.H{
		"status":     "success",
		"session_id": sessionID,
		"message":    "session deleted",
	})
}

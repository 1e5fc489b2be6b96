package handler

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"lectern/internal/ai"
	"lectern/internal/app"
	"lectern/internal/ingest"
	"lectern/internal/transport/http/response"
)

type IngestHandler struct {
	ingestService  *app.IngestService
	maxUploadBytes int64
	tmpDir         string
}

func NewIngestHandler(ingestService *app.IngestService, maxUploadBytes int64, tmpDir string) *IngestHandler {
	return &IngestHandler{
		ingestService:  ingestService,
		maxUploadBytes: maxUploadBytes,
		tmpDir:         tmpDir,
	}
}

// IngestDocuments accepts a multipart form with "session_id" and "file",
// saves the upload to a temp path and runs the ingestion pipeline.
func (h *IngestHandler) IngestDocuments(c *gin.Context) {
	sessionID := strings.TrimSpace(c.PostForm("session_id"))
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing session_id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}

	ext := filepath.Ext(file.Filename)
	tmp, err := os.CreateTemp(h.tmpDir, "upload-*"+ext)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save upload failed")
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("remove temp upload %s failed: %v", tmpPath, err)
		}
	}()
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save upload failed")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		SessionID: sessionID,
		FilePath:  tmpPath,
		FileType:  strings.TrimPrefix(strings.ToLower(ext), "."),
		Filename:  file.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, ingest.ErrUnsupportedFormat):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, err.Error())
		case errors.Is(err, ai.ErrIndexingTimeout), errors.Is(err, ai.ErrIndexingFailed):
			response.Error(c, http.StatusBadGateway, response.CodeIndexingFailed, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed: "+err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"status":      "success",
		"message":     "document ingested",
		"session_id":  sessionID,
		"document_id": result.Document.ID,
		"filename":    result.Document.Filename,
		"chunk_count": result.ChunkCount,
	})
}

package http

import (
	"github.com/gin-gonic/gin"

	"lectern/internal/audio"
	"lectern/internal/bootstrap"
	"lectern/internal/transport/http/handler"
	"lectern/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CORS())
	router.MaxMultipartMemory = app.Config.MaxUploadBytes()

	healthHandler := handler.NewHealthHandler(app)
	ingestHandler := handler.NewIngestHandler(app.Ingest, app.Config.MaxUploadBytes(), app.Config.Upload.TmpDir)
	lectureHandler := handler.NewLectureHandler(app.Lectures, app.Speech)
	qaHandler := handler.NewQAHandler(app.QA)
	sessionHandler := handler.NewSessionHandler(app.SessionOps)

	router.GET("/healthz", healthHandler.Check)
	router.Static(audio.RoutePrefix, app.AudioCache.Dir())

	router.POST("/ingestDocuments", ingestHandler.IngestDocuments)
	router.POST("/generateLecture", lectureHandler.GenerateLecture)
	router.POST("/generateLectureAudio", lectureHandler.GenerateLectureAudio)
	router.POST("/askQuestion", qaHandler.AskQuestion)
	router.POST("/askQuestionAudio", qaHandler.AskQuestionAudio)
	router.GET("/getDocuments/:session_id", sessionHandler.GetDocuments)
	router.DELETE("/deleteSession/:session_id", sessionHandler.DeleteSession)

	return router
}

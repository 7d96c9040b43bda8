package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/internal/telemetry"
	"rag-chatbot-platform/models"
	"rag-chatbot-platform/utils"

	"github.com/gin-gonic/gin"
)

// Ingestor runs the document ingestion pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, folder string) (files, chunks int, err error)
}

// Chatter runs the retrieval pipeline and owns session memory.
type Chatter interface {
	Chat(ctx context.Context, sessionID, message string, topK int) (string, []models.Source, error)
	ClearSession(sessionID string)
}

// InfoFunc reports the resolved backend configuration for GET /info.
type InfoFunc func() gin.H

// SetupRAGRoutes wires the RAG endpoints onto the router.
func SetupRAGRoutes(router *gin.Engine, ingestor Ingestor, chatter Chatter, info InfoFunc, metrics *telemetry.Metrics) {
	router.POST("/ingest", func(c *gin.Context) {
		var req models.IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		files, chunks, err := ingestor.Ingest(c.Request.Context(), req.Folder)
		if err != nil {
			logger.Error("Ingestion failed", "folder", req.Folder, "error", err)
			utils.RespondWithInternalError(c, "Ingestion failed", nil)
			return
		}

		if metrics != nil {
			metrics.IngestedFiles.Add(c.Request.Context(), int64(files))
			metrics.IngestedChunks.Add(c.Request.Context(), int64(chunks))
		}

		c.JSON(http.StatusOK, models.IngestResult{Files: files, Chunks: chunks})
	})

	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		start := time.Now()
		answer, sources, err := chatter.Chat(c.Request.Context(), req.SessionID, req.Message, req.TopK)
		if err != nil {
			logger.Error("Chat turn failed", "session_id", req.SessionID, "error", err)
			utils.RespondWithInternalError(c, "Failed to generate answer", nil)
			return
		}

		if metrics != nil {
			metrics.ChatRequests.Add(c.Request.Context(), 1)
			metrics.ChatDuration.Record(c.Request.Context(), time.Since(start).Seconds())
			metrics.RetrievedChunks.Add(c.Request.Context(), int64(len(sources)))
		}

		c.JSON(http.StatusOK, models.ChatResponse{Answer: answer, Sources: sources})
	})

	router.POST("/session/:session_id/clear", func(c *gin.Context) {
		sessionID := c.Param("session_id")
		chatter.ClearSession(sessionID)
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Session %s cleared", sessionID)})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, info())
	})
}

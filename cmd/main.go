package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rag-chatbot-platform/internal/backends"
	"rag-chatbot-platform/internal/config"
	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/internal/telemetry"
	"rag-chatbot-platform/middleware"
	"rag-chatbot-platform/routes"
	"rag-chatbot-platform/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.InitTracer("rag-chatbot-platform")
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	// Resolve all backends up front so configuration errors (unknown
	// model, collection dimension mismatch) fail at startup, not on the
	// first request.
	ctx := context.Background()
	registry := backends.NewRegistry(cfg)

	embedding, err := registry.Embedding(ctx)
	if err != nil {
		log.Fatal("Failed to init embedding backend:", err)
	}
	store, err := registry.VectorStore(ctx)
	if err != nil {
		log.Fatal("Failed to init vector store:", err)
	}
	reranker := registry.Reranker()
	generator, err := registry.Generator(ctx)
	if err != nil {
		log.Fatal("Failed to init generator:", err)
	}

	memory := services.NewConversationMemory(cfg.MaxMemoryTurns)
	ingestion := services.NewIngestionPipeline(embedding, store, cfg)
	retrieval := services.NewRetrievalPipeline(embedding, store, reranker, generator, memory, cfg)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	info := func() gin.H {
		return gin.H{
			"embedding": gin.H{
				"model":     embedding.Name(),
				"dimension": embedding.Dimension(),
			},
			"database": gin.H{
				"collection": store.CollectionName(),
				"healthy":    store.IsHealthy(),
			},
			"reranker": gin.H{
				"model":   reranker.Name(),
				"enabled": reranker.IsEnabled(),
			},
			"llm": gin.H{
				"model": generator.ModelName(),
			},
		}
	}

	routes.SetupRAGRoutes(router, ingestion, retrieval, info, metrics)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

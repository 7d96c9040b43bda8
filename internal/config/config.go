package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSystemPrompt = "You are a helpful assistant for Retrieval-Augmented Generation. " +
	"Answer in the user's language. Use the provided context snippets if relevant. " +
	"If the answer is not in the context, say you don't have enough information. " +
	"Cite sources by filename and chunk id."

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Capability provider selectors
	EmbeddingProvider string // "google" (default), "openai"
	DatabaseProvider  string // "qdrant" (default), "memory"
	RerankerProvider  string // "jina" (default)
	LLMProvider       string // "gemini" (default)

	// Embedding backend
	EmbeddingModel string
	OpenAIAPIKey   string
	OpenAIBaseURL  string

	// Vector store
	QdrantHost       string
	QdrantPort       int
	QdrantURL        string
	QdrantCollection string

	// Reranker; empty model disables reranking entirely
	RerankerModel  string
	RerankerURL    string
	RerankerAPIKey string

	// Generator
	GeminiAPIKey string
	LLMModel     string
	MaxTokens    int
	Temperature  float64

	// Pipeline tuning
	DefaultTopK    int
	MaxMemoryTurns int
	MaxChunkSize   int
	ChunkOverlap   int
	SystemPrompt   string
	PersistDir     string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "google")),
		DatabaseProvider:  strings.ToLower(getEnv("DATABASE_PROVIDER", "qdrant")),
		RerankerProvider:  strings.ToLower(getEnv("RERANKER_PROVIDER", "jina")),
		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),

		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		QdrantURL:        getEnv("QDRANT_URL", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "jp_docs_semantic"),

		RerankerModel:  getEnv("RERANKER_MODEL", ""),
		RerankerURL:    getEnv("RERANKER_URL", "https://api.jina.ai/v1/rerank"),
		RerankerAPIKey: getEnv("RERANKER_API_KEY", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		LLMModel:     getEnv("LLM_MODEL", "gemini-2.0-flash"),
		MaxTokens:    getEnvInt("LLM_MAX_TOKENS", 700),
		Temperature:  getEnvFloat64("LLM_TEMPERATURE", 0.3),

		DefaultTopK:    getEnvInt("DEFAULT_TOP_K", 4),
		MaxMemoryTurns: getEnvInt("MAX_MEMORY_TURNS", 12),
		MaxChunkSize:   getEnvInt("MAX_CHUNK_SIZE", 800),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 80),
		SystemPrompt:   getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
		PersistDir:     getEnv("PERSIST_DIR", "./storage"),
	}

	// Validate required fields
	if cfg.LLMProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("MAX_CHUNK_SIZE must be positive, got %d", cfg.MaxChunkSize)
	}

	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.MaxChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, MAX_CHUNK_SIZE), got %d", cfg.ChunkOverlap)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

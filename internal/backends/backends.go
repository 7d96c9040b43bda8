// Package backends defines the four pluggable capability interfaces the
// retrieval pipelines depend on (embedding, vector store, reranker,
// generator) and a registry that resolves one concrete instance per
// capability from configuration.
//
// Implementations must be safe for concurrent use: the registry hands out
// one shared instance per capability for the whole process.
package backends

import (
	"context"

	"rag-chatbot-platform/models"
)

// Embedding converts texts into fixed-dimension vectors. Embed is
// order-preserving: vector i corresponds to texts[i], and the returned
// slice always has exactly len(texts) entries on success.
type Embedding interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Name() string
}

// VectorStore persists embedded chunks and answers similarity queries.
//
// Search returns hits ordered by descending relevance as defined by the
// backend's distance metric. A failed search is mapped to zero hits by the
// implementation (logged, not returned as an error) so a degraded store
// never fails a whole chat turn.
type VectorStore interface {
	Upsert(ctx context.Context, vectors [][]float32, payloads []models.Chunk) error
	Search(ctx context.Context, vector []float32, k int) []models.SearchHit
	DeleteCollection(ctx context.Context) error
	IsHealthy() bool
	CollectionName() string
}

// Reranker reorders search hits by relevance to the query. A disabled
// reranker returns hits unchanged. Reranked scores replace the vector
// store's scores outright; the two are never blended.
type Reranker interface {
	Rerank(ctx context.Context, query string, hits []models.SearchHit) []models.SearchHit
	IsEnabled() bool
	Name() string
}

// Generator produces an answer from a system prompt and an ordered turn
// sequence. Turns with the system role are backend-specific: the Gemini
// implementation folds them into the system instruction.
type Generator interface {
	Generate(ctx context.Context, system string, msgs []models.Turn, maxTokens int, temperature float64) (string, error)
	ModelName() string
}

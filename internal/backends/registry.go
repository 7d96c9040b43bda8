package backends

import (
	"context"
	"fmt"
	"sync"

	"rag-chatbot-platform/internal/config"
	"rag-chatbot-platform/internal/logger"
)

// Registry resolves one concrete instance per capability from the
// configured provider selectors. Construction is expensive (network
// clients, collection bootstrap), so each capability is built lazily and
// cached for the process lifetime; all pipeline invocations share the
// cached instances.
//
// An unknown provider selector falls back to the documented default
// variant with a warning. An unknown model name for a provider that
// validates its catalog is a configuration error and fails construction.
type Registry struct {
	cfg *config.Config

	embeddingOnce sync.Once
	embedding     Embedding
	embeddingErr  error

	storeOnce sync.Once
	store     VectorStore
	storeErr  error

	rerankerOnce sync.Once
	reranker     Reranker

	generatorOnce sync.Once
	generator     Generator
	generatorErr  error
}

func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg}
}

// Embedding returns the shared embedding backend, constructing it on first use.
func (r *Registry) Embedding(ctx context.Context) (Embedding, error) {
	r.embeddingOnce.Do(func() {
		provider := r.cfg.EmbeddingProvider
		switch provider {
		case "openai":
			r.embedding, r.embeddingErr = NewOpenAIEmbedding(r.cfg.OpenAIBaseURL, r.cfg.OpenAIAPIKey, r.cfg.EmbeddingModel)
		case "google":
			r.embedding, r.embeddingErr = NewGeminiEmbedding(ctx, r.cfg.GeminiAPIKey, r.cfg.EmbeddingModel)
		default:
			logger.Warn("Unknown embedding provider, falling back to google", "provider", provider)
			r.embedding, r.embeddingErr = NewGeminiEmbedding(ctx, r.cfg.GeminiAPIKey, "text-embedding-004")
		}
	})
	return r.embedding, r.embeddingErr
}

// VectorStore returns the shared vector store. The embedding backend is
// resolved first because collection bootstrap needs its dimension.
func (r *Registry) VectorStore(ctx context.Context) (VectorStore, error) {
	r.storeOnce.Do(func() {
		emb, err := r.Embedding(ctx)
		if err != nil {
			r.storeErr = fmt.Errorf("vector store needs an embedding backend: %w", err)
			return
		}

		provider := r.cfg.DatabaseProvider
		switch provider {
		case "memory":
			r.store = NewMemoryStore(r.cfg.QdrantCollection, emb.Dimension())
		case "qdrant":
			r.store, r.storeErr = NewQdrantStore(ctx, r.cfg.QdrantHost, r.cfg.QdrantPort,
				r.cfg.QdrantURL, r.cfg.QdrantCollection, emb.Dimension())
		default:
			logger.Warn("Unknown database provider, falling back to qdrant", "provider", provider)
			r.store, r.storeErr = NewQdrantStore(ctx, r.cfg.QdrantHost, r.cfg.QdrantPort,
				r.cfg.QdrantURL, r.cfg.QdrantCollection, emb.Dimension())
		}
	})
	return r.store, r.storeErr
}

// Reranker returns the shared reranker. Construction cannot fail: an empty
// RERANKER_MODEL yields a disabled reranker whose Rerank is the identity.
func (r *Registry) Reranker() Reranker {
	r.rerankerOnce.Do(func() {
		provider := r.cfg.RerankerProvider
		if provider != "jina" {
			logger.Warn("Unknown reranker provider, falling back to jina", "provider", provider)
		}
		r.reranker = NewHTTPReranker(r.cfg.RerankerURL, r.cfg.RerankerAPIKey, r.cfg.RerankerModel)
	})
	return r.reranker
}

// Generator returns the shared generation backend.
func (r *Registry) Generator(ctx context.Context) (Generator, error) {
	r.generatorOnce.Do(func() {
		provider := r.cfg.LLMProvider
		if provider != "gemini" {
			logger.Warn("Unknown LLM provider, falling back to gemini", "provider", provider)
		}
		r.generator, r.generatorErr = NewGeminiGenerator(ctx, r.cfg.GeminiAPIKey, r.cfg.LLMModel)
	})
	return r.generator, r.generatorErr
}

package backends

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// googleEmbeddingDims is the catalog of supported Google embedding models.
// An unrecognized model name is a configuration error, not a fallback case.
var googleEmbeddingDims = map[string]int{
	"text-embedding-004": 768,
	"embedding-001":      768,
}

// GeminiEmbedding embeds texts with the Google Generative AI embeddings API.
type GeminiEmbedding struct {
	client *genai.Client
	model  string
	dim    int
}

func NewGeminiEmbedding(ctx context.Context, apiKey, model string) (*GeminiEmbedding, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	dim, ok := googleEmbeddingDims[model]
	if !ok {
		return nil, fmt.Errorf("unsupported Google embedding model: %s (supported: %v)",
			model, supportedGoogleModels())
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GeminiEmbedding{client: client, model: model, dim: dim}, nil
}

// Embed embeds all texts in one batched API call, preserving input order.
func (e *GeminiEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := e.client.EmbeddingModel(e.model)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("batch embedding failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d texts",
			len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("no embedding returned for text %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func (e *GeminiEmbedding) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embedding.Values, nil
}

func (e *GeminiEmbedding) Dimension() int { return e.dim }

func (e *GeminiEmbedding) Name() string { return e.model }

// Close releases the underlying API client.
func (e *GeminiEmbedding) Close() error { return e.client.Close() }

func supportedGoogleModels() []string {
	names := make([]string, 0, len(googleEmbeddingDims))
	for name := range googleEmbeddingDims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

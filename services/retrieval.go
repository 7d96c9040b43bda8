package services

import (
	"context"
	"fmt"
	"strings"

	"rag-chatbot-platform/internal/backends"
	"rag-chatbot-platform/internal/config"
	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/models"
)

const (
	contextSeparator = "\n\n---\n\n"
	noContextMessage = "No context."
	previewLength    = 160
)

// RetrievalPipeline answers one chat turn: retrieve relevant chunks,
// assemble the generation input with the session's history, call the
// generator and record the exchange.
type RetrievalPipeline struct {
	embedding backends.Embedding
	store     backends.VectorStore
	reranker  backends.Reranker
	generator backends.Generator
	memory    *ConversationMemory

	systemPrompt string
	defaultTopK  int
	maxTokens    int
	temperature  float64
}

func NewRetrievalPipeline(
	embedding backends.Embedding,
	store backends.VectorStore,
	reranker backends.Reranker,
	generator backends.Generator,
	memory *ConversationMemory,
	cfg *config.Config,
) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedding:    embedding,
		store:        store,
		reranker:     reranker,
		generator:    generator,
		memory:       memory,
		systemPrompt: cfg.SystemPrompt,
		defaultTopK:  cfg.DefaultTopK,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
	}
}

// Chat runs one retrieval-augmented turn for the session. Sources come
// back in the order of the retained hits: descending relevance after the
// optional rerank and truncation to topK. The exchange is written to
// memory only after the generator succeeds, so a failed turn leaves the
// session history untouched.
func (p *RetrievalPipeline) Chat(ctx context.Context, sessionID, message string, topK int) (string, []models.Source, error) {
	if topK <= 0 {
		topK = p.defaultTopK
	}

	history := p.memory.Read(sessionID)

	queryVector, err := p.embedding.EmbedOne(ctx, message)
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Always search at least the configured breadth so the reranker has
	// enough candidates even when the caller asks for fewer.
	searchK := p.defaultTopK
	if topK > searchK {
		searchK = topK
	}
	hits := p.store.Search(ctx, queryVector, searchK)

	if p.reranker.IsEnabled() {
		hits = p.reranker.Rerank(ctx, message, hits)
	}
	if len(hits) > topK {
		hits = hits[:topK]
	}

	contextText, sources := buildContext(hits)

	msgs := make([]models.Turn, 0, len(history)+2)
	msgs = append(msgs, history...)
	msgs = append(msgs,
		models.Turn{Role: models.RoleSystem, Content: "Context snippets:\n" + contextText},
		models.Turn{Role: models.RoleUser, Content: message},
	)

	answer, err := p.generator.Generate(ctx, p.systemPrompt, msgs, p.maxTokens, p.temperature)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	p.memory.Append(sessionID, message, answer)
	return answer, sources, nil
}

// ClearSession drops the session's conversation history.
func (p *RetrievalPipeline) ClearSession(sessionID string) {
	p.memory.Clear(sessionID)
	logger.Debug("Session cleared", "session_id", sessionID)
}

// buildContext renders the retained hits into the generator's context
// string and the user-facing source projections, in the same order.
func buildContext(hits []models.SearchHit) (string, []models.Source) {
	if len(hits) == 0 {
		return noContextMessage, []models.Source{}
	}

	blocks := make([]string, 0, len(hits))
	sources := make([]models.Source, 0, len(hits))
	for _, h := range hits {
		blocks = append(blocks, fmt.Sprintf("[%s from %s]\n%s", h.Payload.ChunkID, h.Payload.Path, h.Payload.Text))
		sources = append(sources, models.Source{
			Path:        h.Payload.Path,
			ChunkID:     h.Payload.ChunkID,
			Score:       h.Score,
			TextPreview: preview(h.Payload.Text),
		})
	}
	return strings.Join(blocks, contextSeparator), sources
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "…"
}

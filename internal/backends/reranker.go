package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/models"
)

// HTTPReranker scores (query, chunk) pairs against a Jina-style /rerank
// endpoint. An empty model name disables reranking and turns Rerank into
// the identity function.
//
// Reranked scores replace the vector-store scores outright; the two score
// scales are never blended.
type HTTPReranker struct {
	url     string
	apiKey  string
	model   string
	enabled bool
	client  *http.Client
}

func NewHTTPReranker(url, apiKey, model string) *HTTPReranker {
	return &HTTPReranker{
		url:     url,
		apiKey:  apiKey,
		model:   model,
		enabled: model != "",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *HTTPReranker) Rerank(ctx context.Context, query string, hits []models.SearchHit) []models.SearchHit {
	if !r.enabled || len(hits) == 0 {
		return hits
	}

	scores, err := r.score(ctx, query, hits)
	if err != nil {
		logger.Warn("rerank call failed, keeping vector-store order", "model", r.model, "error", err)
		return hits
	}

	reranked := make([]models.SearchHit, len(hits))
	copy(reranked, hits)
	for i := range reranked {
		reranked[i].Score = scores[i]
	}
	sort.SliceStable(reranked, func(i, j int) bool { return reranked[i].Score > reranked[j].Score })
	return reranked
}

// score returns one relevance score per hit, index-aligned with hits.
func (r *HTTPReranker) score(ctx context.Context, query string, hits []models.SearchHit) ([]float32, error) {
	docs := make([]string, len(hits))
	for i, h := range hits {
		docs[i] = h.Payload.Text
	}

	reqBody := struct {
		Model     string   `json:"model"`
		Query     string   `json:"query"`
		Documents []string `json:"documents"`
		TopN      int      `json:"top_n"`
	}{Model: r.model, Query: query, Documents: docs, TopN: len(docs)}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("rerank failed: %s: %s", resp.Status, string(body))
	}

	var out struct {
		Results []struct {
			Index          int     `json:"index"`
			RelevanceScore float32 `json:"relevance_score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Results) != len(hits) {
		return nil, fmt.Errorf("rerank returned %d scores for %d documents", len(out.Results), len(hits))
	}

	scores := make([]float32, len(hits))
	for _, res := range out.Results {
		if res.Index < 0 || res.Index >= len(hits) {
			return nil, fmt.Errorf("rerank returned out-of-range index %d", res.Index)
		}
		scores[res.Index] = res.RelevanceScore
	}
	return scores, nil
}

func (r *HTTPReranker) IsEnabled() bool { return r.enabled }

func (r *HTTPReranker) Name() string {
	if !r.enabled {
		return "disabled"
	}
	return r.model
}

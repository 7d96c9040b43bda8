package backends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIEmbeddingRejectsUnknownModel(t *testing.T) {
	if _, err := NewOpenAIEmbedding("", "key", "bogus-model"); err == nil {
		t.Fatalf("expected error for unknown model")
	} else if !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported-model error, got %v", err)
	}
}

func TestNewOpenAIEmbeddingRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIEmbedding("", "", "text-embedding-3-small"); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}

func TestNewGeminiEmbeddingRejectsUnknownModel(t *testing.T) {
	if _, err := NewGeminiEmbedding(context.Background(), "key", "bogus-model"); err == nil {
		t.Fatalf("expected error for unknown model")
	} else if !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported-model error, got %v", err)
	}
}

func TestNewGeminiEmbeddingRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiEmbedding(context.Background(), "", "text-embedding-004"); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}

func TestOpenAIEmbeddingRestoresInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		// Reply out of order; the client must reassemble by index.
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float32{0, 1}},
				{"index": 0, "embedding": []float32{1, 0}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	emb, err := NewOpenAIEmbedding(srv.URL, "key", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	vecs, err := emb.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Fatalf("vectors not restored to input order: %v", vecs)
	}
}

func TestOpenAIEmbeddingSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	emb, err := NewOpenAIEmbedding(srv.URL, "key", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	if _, err := emb.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

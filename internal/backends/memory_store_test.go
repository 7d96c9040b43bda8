package backends

import (
	"context"
	"testing"

	"rag-chatbot-platform/models"
)

func TestMemoryStoreSearchOrdersByCosine(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test", 2)

	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{0.7, 0.7},
	}
	payloads := []models.Chunk{
		{Path: "a.txt", ChunkID: "a.txt::0", Text: "aligned"},
		{Path: "b.txt", ChunkID: "b.txt::0", Text: "orthogonal"},
		{Path: "c.txt", ChunkID: "c.txt::0", Text: "diagonal"},
	}
	if err := store.Upsert(ctx, vectors, payloads); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	hits := store.Search(ctx, []float32{1, 0}, 10)
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Payload.ChunkID != "a.txt::0" {
		t.Fatalf("expected best match a.txt::0, got %s", hits[0].Payload.ChunkID)
	}
	if hits[2].Payload.ChunkID != "b.txt::0" {
		t.Fatalf("expected worst match b.txt::0, got %s", hits[2].Payload.ChunkID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Fatalf("hits not sorted by score descending: %v", hits)
		}
	}
}

func TestMemoryStoreSearchTruncatesToK(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test", 2)

	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0.5, 0.5}, {0, 1}}
	payloads := make([]models.Chunk, len(vectors))
	if err := store.Upsert(ctx, vectors, payloads); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	hits := store.Search(ctx, []float32{1, 0}, 2)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
}

func TestMemoryStoreDeleteCollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test", 2)

	if err := store.Upsert(ctx, [][]float32{{1, 0}}, []models.Chunk{{ChunkID: "x::0"}}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := store.DeleteCollection(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if hits := store.Search(ctx, []float32{1, 0}, 10); len(hits) != 0 {
		t.Fatalf("expected empty store after delete, got %d hits", len(hits))
	}
}

func TestCosineHandlesDegenerateInputs(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1}); got != 0 {
		t.Fatalf("mismatched lengths should score 0, got %v", got)
	}
	if got := cosine([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Fatalf("zero vector should score 0, got %v", got)
	}
}

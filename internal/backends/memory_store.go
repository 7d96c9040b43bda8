package backends

import (
	"context"
	"math"
	"sort"
	"sync"

	"rag-chatbot-platform/models"
)

// MemoryStore is a brute-force cosine-similarity vector store kept entirely
// in process memory. It backs local development and tests where no Qdrant
// instance is available; contents are lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	collection string
	dim        int
	vectors    [][]float32
	payloads   []models.Chunk
}

func NewMemoryStore(collection string, dim int) *MemoryStore {
	return &MemoryStore{collection: collection, dim: dim}
}

func (s *MemoryStore) Upsert(_ context.Context, vectors [][]float32, payloads []models.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = append(s.vectors, vectors...)
	s.payloads = append(s.payloads, payloads...)
	return nil
}

func (s *MemoryStore) Search(_ context.Context, vector []float32, k int) []models.SearchHit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]models.SearchHit, 0, len(s.vectors))
	for i, v := range s.vectors {
		hits = append(hits, models.SearchHit{
			Score:   cosine(vector, v),
			Payload: s.payloads[i],
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func (s *MemoryStore) DeleteCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.payloads = nil
	return nil
}

func (s *MemoryStore) IsHealthy() bool { return true }

func (s *MemoryStore) CollectionName() string { return s.collection }

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

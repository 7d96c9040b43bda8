package backends

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/models"
)

// QdrantStore stores chunk vectors in a Qdrant collection using cosine
// similarity over the gRPC client.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dim        int
}

// NewQdrantStore connects to Qdrant and bootstraps the collection: missing
// collections are created with the given dimension and cosine metric; an
// existing collection keeps its dimension, and a mismatch against the
// embedding backend's dimension fails here, before any write.
func NewQdrantStore(ctx context.Context, host string, port int, rawURL, collection string, dim int) (*QdrantStore, error) {
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid QDRANT_URL: %w", err)
		}
		host = u.Hostname()
		if p := u.Port(); p != "" {
			port, _ = strconv.Atoi(p)
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	s := &QdrantStore{client: client, collection: collection, dim: dim}
	if err := s.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	existing, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range existing {
		if name != s.collection {
			continue
		}
		info, err := s.client.GetCollectionInfo(ctx, s.collection)
		if err != nil {
			return fmt.Errorf("failed to inspect collection %s: %w", s.collection, err)
		}
		// Keep the existing dimension; never resize silently.
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && int(size) != s.dim {
			return fmt.Errorf("collection %s has dimension %d but embedding backend produces %d; "+
				"recreate the collection or change EMBEDDING_MODEL", s.collection, size, s.dim)
		}
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, vectors [][]float32, payloads []models.Chunk) error {
	if len(vectors) != len(payloads) {
		return fmt.Errorf("vectors and payloads length mismatch: %d vs %d", len(vectors), len(payloads))
	}

	points := make([]*qdrant.PointStruct, len(vectors))
	for i, vec := range vectors {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.New().String()),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(map[string]any{
				"path":     payloads[i].Path,
				"chunk_id": payloads[i].ChunkID,
				"text":     payloads[i].Text,
			}),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Search maps query failures to zero hits so a degraded store does not
// fail the whole chat turn; the error is logged for operators.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, k int) []models.SearchHit {
	limit := uint64(k)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.Warn("qdrant search failed, returning zero hits", "collection", s.collection, "error", err)
		return nil
	}

	hits := make([]models.SearchHit, 0, len(resp))
	for _, point := range resp {
		payload := point.GetPayload()
		hits = append(hits, models.SearchHit{
			Score: point.GetScore(),
			Payload: models.Chunk{
				Path:    payload["path"].GetStringValue(),
				ChunkID: payload["chunk_id"].GetStringValue(),
				Text:    payload["text"].GetStringValue(),
			},
		})
	}
	return hits
}

func (s *QdrantStore) DeleteCollection(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *QdrantStore) IsHealthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.client.HealthCheck(ctx)
	return err == nil
}

func (s *QdrantStore) CollectionName() string { return s.collection }

// Close releases the underlying gRPC connection.
func (s *QdrantStore) Close() error { return s.client.Close() }

package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"rag-chatbot-platform/internal/backends"
	"rag-chatbot-platform/internal/config"
	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/models"
)

// IngestionPipeline discovers documents under a folder, chunks their text
// and writes the embedded chunks to the vector store.
type IngestionPipeline struct {
	embedding backends.Embedding
	store     backends.VectorStore
	maxChars  int
	overlap   int

	// extract is swappable for tests; defaults to DetectAndExtract.
	extract func(path string) (string, error)
}

func NewIngestionPipeline(embedding backends.Embedding, store backends.VectorStore, cfg *config.Config) *IngestionPipeline {
	return &IngestionPipeline{
		embedding: embedding,
		store:     store,
		maxChars:  cfg.MaxChunkSize,
		overlap:   cfg.ChunkOverlap,
		extract:   DetectAndExtract,
	}
}

// Ingest processes every supported document under folder recursively and
// returns (file count, chunk count). Files are visited in sorted order so
// repeated runs over the same corpus are reproducible. A file that fails
// extraction is skipped; it never aborts the run. All chunk texts across
// all files are embedded in one batch call and upserted in one call; with
// no chunks at all, both backends are left untouched and (0, 0) is
// returned.
func (p *IngestionPipeline) Ingest(ctx context.Context, folder string) (int, int, error) {
	paths, err := discoverDocuments(folder)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to enumerate folder: %w", err)
	}

	var texts []string
	var payloads []models.Chunk

	for _, path := range paths {
		text, err := p.extract(path)
		if err != nil {
			logger.Warn("Extraction failed, skipping file", "path", path, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			logger.Debug("File yielded no text, skipping", "path", path)
			continue
		}

		base := filepath.Base(path)
		for i, chunk := range SplitText(text, p.maxChars, p.overlap) {
			if strings.TrimSpace(chunk) == "" {
				continue
			}
			texts = append(texts, chunk)
			payloads = append(payloads, models.Chunk{
				Path: path,
				// Scoped per source file; same-named files in different
				// directories can collide.
				ChunkID: fmt.Sprintf("%s::%d", base, i),
				Text:    chunk,
			})
		}
	}

	if len(texts) == 0 {
		return 0, 0, nil
	}

	vectors, err := p.embedding.Embed(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to embed chunks: %w", err)
	}

	if err := p.store.Upsert(ctx, vectors, payloads); err != nil {
		return 0, 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	logger.Info("Ingestion complete", "files", len(paths), "chunks", len(texts))
	return len(paths), len(texts), nil
}

// discoverDocuments walks folder recursively and returns the deduplicated,
// sorted list of files with supported extensions.
func discoverDocuments(folder string) ([]string, error) {
	seen := make(map[string]bool)
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if SupportedExtensions[strings.ToLower(filepath.Ext(path))] {
			seen[path] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

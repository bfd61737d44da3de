package document

import (
	"context"

	"github.com/futig/rag-playground/internal/entity"
)

type Extractor interface {
	Extract(ctx context.Context, path, fileType string) (string, error)
}

type Chunker interface {
	// Split reports whether the chunk cap left part of text uncovered.
	Split(text string) ([]string, bool)
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) *entity.EmbeddingBatch
}

type DocumentStore interface {
	Put(sessionID, fileID string, doc *entity.Document) error
	Summaries(sessionID string) []entity.DocumentSummary
}

package chat

import (
	"context"

	"github.com/futig/rag-playground/internal/entity"
)

type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, bool)
}

type DocumentStore interface {
	Has(sessionID string) bool
	Get(sessionID string) map[string]*entity.Document
}

type LLMConnector interface {
	Enabled() bool
	Stream(ctx context.Context, req entity.CompletionRequest) (entity.CompletionStream, error)
}

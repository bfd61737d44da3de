package chat

import (
	"context"

	"github.com/futig/rag-playground/internal/entity"
)

type ChatUsecase interface {
	Prepare(ctx context.Context, sessionID string, req *entity.ChatRequest) (*entity.CompletionRequest, int, error)
	Stream(ctx context.Context, req *entity.CompletionRequest) (entity.CompletionStream, error)
}

type SessionUsecase interface {
	Touch(ctx context.Context, sessionID string)
}

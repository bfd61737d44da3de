package session

import (
	"context"
	"time"

	"github.com/futig/rag-playground/internal/entity"
)

type SessionUsecase interface {
	SweepIdle(ctx context.Context, threshold time.Duration) int
	ClearSession(ctx context.Context, sessionID string) (entity.ClearResult, error)
}

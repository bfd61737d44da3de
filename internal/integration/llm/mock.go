package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector streams a canned reply in the provider's chunk format. It
// lets the playground run without network access.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Enabled() bool {
	return true
}

func (m *MockConnector) Stream(ctx context.Context, req entity.CompletionRequest) (entity.CompletionStream, error) {
	ctxzap.Info(ctx, "[MOCK] starting chat completion stream", zap.String("model", req.Model))

	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == entity.RoleUser {
			last = req.Messages[i].Content
			break
		}
	}

	reply := fmt.Sprintf("Mock reply to: %s", last)
	if n := len(req.Messages); n > 1 && req.Messages[n-2].Role == entity.RoleSystem {
		reply += " (with document context)"
	}

	words := strings.Fields(reply)
	chunks := make([][]byte, 0, len(words))
	for i, word := range words {
		if i > 0 {
			word = " " + word
		}
		chunk, err := json.Marshal(map[string]any{
			"id":      "mock",
			"object":  "chat.completion.chunk",
			"model":   req.Model,
			"choices": []map[string]any{{"index": 0, "delta": map[string]string{"content": word}}},
		})
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return &SliceStream{Chunks: chunks}, nil
}

// SliceStream replays a fixed list of chunks.
type SliceStream struct {
	Chunks  [][]byte
	Failure error
	pos     int
	closed  bool
}

func (s *SliceStream) Next() bool {
	if s.closed || s.pos >= len(s.Chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *SliceStream) Chunk() []byte {
	if s.pos == 0 {
		return nil
	}
	return s.Chunks[s.pos-1]
}

func (s *SliceStream) Err() error {
	if s.pos >= len(s.Chunks) {
		return s.Failure
	}
	return nil
}

func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

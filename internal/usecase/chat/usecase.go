package chat

import (
	"context"
	"fmt"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/pkg/validator"
	"github.com/futig/rag-playground/internal/retriever"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase builds completion requests, optionally grounded in the
// session's documents, and streams the provider's answer.
type ChatUsecase struct {
	embedder  QueryEmbedder
	documents DocumentStore
	llm       LLMConnector
	validator *validator.Validator
	defaults  config.LLMConnectorConfig
	topK      int
	logger    *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	embedder QueryEmbedder,
	documents DocumentStore,
	llm LLMConnector,
	validator *validator.Validator,
	llmCfg config.LLMConnectorConfig,
	ragCfg config.RAGConfig,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		embedder:  embedder,
		documents: documents,
		llm:       llm,
		validator: validator,
		defaults:  llmCfg,
		topK:      retriever.ClampTopK(ragCfg.TopK),
		logger:    logger,
	}
}

// Prepare validates req and resolves it into an upstream request. With
// UseRAG set and documents stored for the session, the best matching chunks
// are inserted as a system message right before the last user message. The
// int is the number of injected chunks.
func (uc *ChatUsecase) Prepare(ctx context.Context, sessionID string, req *entity.ChatRequest) (*entity.CompletionRequest, int, error) {
	if !uc.llm.Enabled() {
		return nil, 0, entity.ErrMissingCredential
	}

	if err := uc.validator.ValidateChat(req); err != nil {
		return nil, 0, err
	}

	completion := &entity.CompletionRequest{
		Messages:    append([]entity.ChatMessage(nil), req.Messages...),
		Model:       req.Model,
		Temperature: uc.defaults.DefaultTemperature,
		MaxTokens:   uc.defaults.DefaultMaxTokens,
	}
	if completion.Model == "" {
		completion.Model = uc.defaults.ChatModel
	}
	if req.Temperature != nil {
		completion.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		completion.MaxTokens = *req.MaxTokens
	}

	if !req.UseRAG || sessionID == "" {
		return completion, 0, nil
	}

	injected := uc.augment(ctx, sessionID, completion)
	return completion, injected, nil
}

// Stream starts the upstream completion. Provider rejections are returned
// as *entity.UpstreamError before anything is streamed.
func (uc *ChatUsecase) Stream(ctx context.Context, req *entity.CompletionRequest) (entity.CompletionStream, error) {
	stream, err := uc.llm.Stream(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("start completion: %w", err)
	}
	return stream, nil
}

func (uc *ChatUsecase) augment(ctx context.Context, sessionID string, req *entity.CompletionRequest) int {
	if !uc.documents.Has(sessionID) {
		ctxzap.Debug(ctx, "rag requested but session has no documents")
		return 0
	}

	// The session may have been cleared since the check.
	docs := uc.documents.Get(sessionID)
	if len(docs) == 0 {
		return 0
	}

	idx := lastUserMessage(req.Messages)
	if idx < 0 {
		return 0
	}

	query, fallback := uc.embedder.EmbedQuery(ctx, req.Messages[idx].Content)
	if fallback {
		ctxzap.Warn(ctx, "query embedded with fallback vector, retrieval is unreliable")
	}

	chunks := retriever.Retrieve(query, docs, uc.topK)
	if len(chunks) == 0 {
		ctxzap.Info(ctx, "no relevant chunks found", zap.Int("documents", len(docs)))
		return 0
	}

	req.Messages = insertAt(req.Messages, idx, entity.ChatMessage{
		Role:    entity.RoleSystem,
		Content: buildContextMessage(chunks),
	})

	ctxzap.Info(ctx, "prompt augmented with document context",
		zap.Int("chunks", len(chunks)),
		zap.Int("documents", len(docs)),
	)

	return len(chunks)
}

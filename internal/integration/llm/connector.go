package llm

import (
	"context"
	"errors"
	"io"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
	"go.uber.org/zap"
)

const maxUpstreamErrorBody = 64 << 10

// Connector streams chat completions from the inference API.
type Connector struct {
	client *openai.Client
	token  string
	logger *zap.Logger
}

func NewConnector(cfg config.LLMConnectorConfig, logger *zap.Logger) *Connector {
	return &Connector{
		// Streams are bounded by the request context, not a client timeout.
		client: common.NewOpenAIClient(cfg.HTTPClientConfig, 0),
		token:  cfg.Token,
		logger: logger,
	}
}

// Enabled reports whether a credential is configured.
func (c *Connector) Enabled() bool {
	return c.token != ""
}

// Stream starts a streamed completion. The upstream request is sent before
// Stream returns, so a rejected call surfaces here as *entity.UpstreamError
// and no partial response has to be written.
func (c *Connector) Stream(ctx context.Context, req entity.CompletionRequest) (entity.CompletionStream, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    toMessageParams(req.Messages),
		Model:       openai.ChatModel(req.Model),
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(req.MaxTokens),
	}

	ctxzap.Info(ctx, "starting chat completion stream",
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
	)

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, toUpstreamError(err)
	}

	return &chunkStream{stream: stream}, nil
}

func toMessageParams(messages []entity.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case entity.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case entity.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

// toUpstreamError keeps the provider's status code and raw body so they can
// be passed through to the client.
func toUpstreamError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	body := ""
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		raw, readErr := io.ReadAll(io.LimitReader(apiErr.Response.Body, maxUpstreamErrorBody))
		if readErr == nil {
			body = string(raw)
		}
	}
	if body == "" {
		body = apiErr.RawJSON()
	}

	return &entity.UpstreamError{
		StatusCode: apiErr.StatusCode,
		Body:       body,
		Err:        err,
	}
}

// chunkStream adapts the SDK stream to entity.CompletionStream, exposing
// each event exactly as the provider sent it.
type chunkStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *chunkStream) Next() bool {
	return s.stream.Next()
}

func (s *chunkStream) Chunk() []byte {
	chunk := s.stream.Current()
	return []byte(chunk.RawJSON())
}

func (s *chunkStream) Err() error {
	if err := s.stream.Err(); err != nil {
		return toUpstreamError(err)
	}
	return nil
}

func (s *chunkStream) Close() error {
	return s.stream.Close()
}

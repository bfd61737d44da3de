package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

var errMalformedEmbedding = errors.New("malformed embedding response")

// Connector embeds texts through the inference API one item at a time.
// Every failure degrades to a local fallback vector; Embed never fails.
type Connector struct {
	client      *openai.Client // nil when no credential is configured
	model       string
	dimension   int
	itemDelay   time.Duration
	batchDelay  time.Duration
	pacingBatch int
	logger      *zap.Logger
}

func NewConnector(
	llmCfg config.LLMConnectorConfig,
	cfg config.EmbeddingConfig,
	logger *zap.Logger,
) *Connector {
	c := &Connector{
		model:       cfg.Model,
		dimension:   cfg.Dimension,
		itemDelay:   cfg.ItemDelay,
		batchDelay:  cfg.BatchDelay,
		pacingBatch: max(cfg.PacingBatch, 1),
		logger:      logger,
	}

	if llmCfg.Token != "" {
		c.client = common.NewOpenAIClient(llmCfg.HTTPClientConfig, llmCfg.RequestTimeout)
	} else {
		logger.Warn("no inference credential configured, embeddings will use local fallback vectors")
	}

	return c
}

// Enabled reports whether remote embedding is configured.
func (c *Connector) Enabled() bool {
	return c.client != nil
}

// Embed returns one vector per text, in order. Remote calls are paced: an
// item delay between calls and a longer batch delay after every pacingBatch
// calls. Once ctx is done the remaining texts get fallback vectors.
func (c *Connector) Embed(ctx context.Context, texts []string) *entity.EmbeddingBatch {
	batch := &entity.EmbeddingBatch{Vectors: make([][]float32, len(texts))}

	if c.client == nil {
		for i, text := range texts {
			batch.Vectors[i] = FallbackVector(text, c.dimension)
		}
		batch.FallbackCount = len(texts)
		ctxzap.Debug(ctx, "embedded with fallback vectors", zap.Int("count", len(texts)))
		return batch
	}

	for i, text := range texts {
		if i > 0 {
			if err := sleep(ctx, c.delayBefore(i)); err != nil {
				ctxzap.Warn(ctx, "embedding interrupted, using fallback for remaining items",
					zap.Int("remaining", len(texts)-i),
					zap.Error(err),
				)
				for j := i; j < len(texts); j++ {
					batch.Vectors[j] = FallbackVector(texts[j], c.dimension)
				}
				batch.FallbackCount += len(texts) - i
				break
			}
		}

		vec, err := c.embedRemote(ctx, text)
		if err != nil {
			ctxzap.Warn(ctx, "remote embedding failed, using fallback vector",
				zap.Int("index", i),
				zap.Error(err),
			)
			vec = FallbackVector(text, c.dimension)
			batch.FallbackCount++
		}
		batch.Vectors[i] = vec
	}

	ctxzap.Info(ctx, "texts embedded",
		zap.Int("count", len(texts)),
		zap.Int("fallback_count", batch.FallbackCount),
		zap.String("source", string(batch.Source())),
	)

	return batch
}

// EmbedQuery embeds a single query. The bool reports a fallback vector.
func (c *Connector) EmbedQuery(ctx context.Context, text string) ([]float32, bool) {
	if c.client == nil {
		return FallbackVector(text, c.dimension), true
	}

	vec, err := c.embedRemote(ctx, text)
	if err != nil {
		ctxzap.Warn(ctx, "remote query embedding failed, using fallback vector", zap.Error(err))
		return FallbackVector(text, c.dimension), true
	}
	return vec, false
}

func (c *Connector) delayBefore(i int) time.Duration {
	if i%c.pacingBatch == 0 {
		return c.batchDelay
	}
	return c.itemDelay
}

func (c *Connector) embedRemote(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no data", errMalformedEmbedding)
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.dimension {
		return nil, fmt.Errorf("%w: dimension %d, expected %d", errMalformedEmbedding, len(embedding), c.dimension)
	}

	return toFloat32(embedding), nil
}

// toFloat32 converts []float64 to []float32.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

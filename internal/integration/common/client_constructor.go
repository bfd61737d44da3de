package common

import (
	"strings"
	"time"

	"github.com/futig/rag-playground/internal/config"
	pkgHTTP "github.com/futig/rag-playground/pkg/http"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithRequestIDPropagation(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}

// NewOpenAIClient builds an inference API client on top of the shared HTTP
// transport stack. SDK retries are disabled: callers own the failure policy.
// A zero requestTimeout builds a streaming client.
func NewOpenAIClient(cfg config.HTTPClientConfig, requestTimeout time.Duration) *openai.Client {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(requestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithRequestIDPropagation(),
	}
	if requestTimeout == 0 {
		opts = append(opts, pkgHTTP.WithStreaming())
	}

	client := openai.NewClient(
		option.WithBaseURL(strings.TrimRight(cfg.Url, "/")+"/"),
		option.WithAPIKey(cfg.Token),
		option.WithHTTPClient(pkgHTTP.NewClient(opts...)),
		option.WithMaxRetries(0),
	)

	return &client
}

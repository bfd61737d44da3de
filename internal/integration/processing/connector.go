package processing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/integration/common"
	"github.com/futig/rag-playground/internal/pkg/response"
	pkghttp "github.com/futig/rag-playground/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector hands uploaded files to a /process-document endpoint over HTTP.
type Connector struct {
	config    config.ProcessingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ProcessingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Process posts req to the processing endpoint. Network failures are
// retried; a 400 means the document was refused for RAG and is returned as a
// response carrying a warning, not as an error.
func (c *Connector) Process(ctx context.Context, req *entity.ProcessDocumentRequest) (*entity.ProcessDocumentResponse, error) {
	ctxzap.Info(ctx, "sending document to processing service",
		zap.String("file_id", req.FileID),
		zap.String("endpoint", c.config.Endpoint),
	)

	var resp entity.ProcessDocumentResponse
	err := c.config.Retry.Do(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp)
	}, isNetworkError)
	if err == nil {
		ctxzap.Info(ctx, "document processed",
			zap.String("file_id", resp.FileID),
			zap.Int("chunks", resp.Chunks),
			zap.Int64("processing_time_ms", resp.ProcessingTime),
		)
		return &resp, nil
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusBadRequest {
		warning := rejectionWarning(httpErr.Message)
		ctxzap.Warn(ctx, "document refused by processing service", zap.String("warning", warning))
		return &entity.ProcessDocumentResponse{
			FileID:   req.FileID,
			Filename: req.Filename,
			Warning:  warning,
		}, nil
	}

	ctxzap.Error(ctx, "failed to process document", zap.Error(err))
	return nil, fmt.Errorf("process document: %w", err)
}

func isNetworkError(err error) bool {
	var netErr *pkghttp.NetworkError
	return errors.As(err, &netErr)
}

// rejectionWarning maps the error code of a refused document to the same
// warning an in-process ingestion would produce.
func rejectionWarning(body string) string {
	var errResp response.ErrorResponse
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return entity.ProcessingFailedWarning
	}
	return entity.RejectionWarning(entity.RejectionFromCode(errResp.Error))
}

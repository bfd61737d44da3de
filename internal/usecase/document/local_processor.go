package document

import (
	"context"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LocalProcessor runs ingestion in process for the upload flow. Refusals
// come back as a response with a warning.
type LocalProcessor struct {
	uc *DocumentUsecase
}

func NewLocalProcessor(uc *DocumentUsecase) *LocalProcessor {
	return &LocalProcessor{uc: uc}
}

func (p *LocalProcessor) Process(ctx context.Context, req *entity.ProcessDocumentRequest) (*entity.ProcessDocumentResponse, error) {
	res, err := p.uc.Ingest(ctx, req)
	if err != nil {
		if !entity.IsIngestionRejection(err) {
			return nil, err
		}

		ctxzap.Warn(ctx, "document refused for RAG", zap.String("file_id", req.FileID), zap.Error(err))
		return &entity.ProcessDocumentResponse{
			FileID:   req.FileID,
			Filename: req.Filename,
			Warning:  entity.RejectionWarning(err),
		}, nil
	}

	return entity.NewProcessDocumentResponse(req, res), nil
}

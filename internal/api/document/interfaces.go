package document

import (
	"context"
	"mime/multipart"

	"github.com/futig/rag-playground/internal/entity"
)

type DocumentUsecase interface {
	SaveUpload(ctx context.Context, sessionID string, fh *multipart.FileHeader) (*entity.StoredFile, error)
	Ingest(ctx context.Context, req *entity.ProcessDocumentRequest) (*entity.IngestResult, error)
	ListDocuments(ctx context.Context, sessionID string) []entity.DocumentSummary
}

// Processor runs ingestion for a freshly uploaded file, either in process
// or through the /process-document endpoint.
type Processor interface {
	Process(ctx context.Context, req *entity.ProcessDocumentRequest) (*entity.ProcessDocumentResponse, error)
}

type SessionUsecase interface {
	Touch(ctx context.Context, sessionID string)
}

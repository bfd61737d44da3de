package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/integration/embedding"
	"github.com/futig/rag-playground/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase persists uploads and turns them into searchable session
// documents.
type DocumentUsecase struct {
	extractor      Extractor
	chunker        Chunker
	embedder       Embedder
	documents      DocumentStore
	validator      *validator.Validator
	uploadDir      string
	minChunkLength int
	maxChunks      int
	now            func() time.Time
	logger         *zap.Logger
}

// NewUsecase creates a new document use case
func NewUsecase(
	extractor Extractor,
	chunker Chunker,
	embedder Embedder,
	documents DocumentStore,
	validator *validator.Validator,
	uploadCfg config.FileUploadConfig,
	ragCfg config.RAGConfig,
	logger *zap.Logger,
) (*DocumentUsecase, error) {
	dir, err := filepath.Abs(uploadCfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}

	return &DocumentUsecase{
		extractor:      extractor,
		chunker:        chunker,
		embedder:       embedder,
		documents:      documents,
		validator:      validator,
		uploadDir:      dir,
		minChunkLength: ragCfg.MinChunkLength,
		maxChunks:      ragCfg.MaxChunks,
		now:            time.Now,
		logger:         logger,
	}, nil
}

// SaveUpload validates fh and writes it to {uploadDir}/{sessionId}__{fileId}.{ext}.
func (uc *DocumentUsecase) SaveUpload(ctx context.Context, sessionID string, fh *multipart.FileHeader) (*entity.StoredFile, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId", entity.ErrMissingField)
	}

	mimeType, err := uc.validator.ValidateUpload(fh)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	fileID := uuid.New().String()
	path := filepath.Join(uc.uploadDir, validator.StoredFileName(sessionID, fileID, mimeType))
	if filepath.Dir(path) != uc.uploadDir {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFilePath, path)
	}

	size, err := uc.writeFile(fh, path)
	if err != nil {
		return nil, err
	}

	stored := &entity.StoredFile{
		FileID:   fileID,
		Filename: validator.SanitizeFilename(fh.Filename),
		Path:     path,
		Size:     size,
		Type:     mimeType,
	}

	ctxzap.Info(ctx, "upload saved",
		zap.String("file_id", fileID),
		zap.String("filename", stored.Filename),
		zap.Int64("size", size),
		zap.String("type", mimeType),
	)

	return stored, nil
}

// Ingest extracts, chunks and embeds the referenced file and stores the
// result for the session. Refusals are reported with the sentinel errors
// recognized by entity.IsIngestionRejection.
func (uc *DocumentUsecase) Ingest(ctx context.Context, req *entity.ProcessDocumentRequest) (*entity.IngestResult, error) {
	start := time.Now()

	if err := uc.validator.ValidateProcessDocument(req); err != nil {
		return nil, err
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("file_id", req.FileID)))

	text, err := uc.extractor.Extract(ctx, req.Filepath, req.FileType)
	if err != nil {
		return nil, err
	}

	chunks, truncated := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, entity.ErrNoChunks
	}

	inputs := embedding.PrepareInputs(chunks, uc.minChunkLength, uc.maxChunks)
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: all %d chunks were too short", entity.ErrNoChunks, len(chunks))
	}

	batch := uc.embedder.Embed(ctx, inputs)
	if len(batch.Vectors) != len(inputs) {
		return nil, fmt.Errorf("%w: %d vectors for %d chunks", entity.ErrStorage, len(batch.Vectors), len(inputs))
	}

	doc := &entity.Document{
		FileID:     req.FileID,
		Filename:   req.Filename,
		Chunks:     inputs,
		Embeddings: batch.Vectors,
		CreatedAt:  uc.now(),
	}
	if err := uc.documents.Put(req.SessionID, req.FileID, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	result := &entity.IngestResult{
		Chunks:          len(inputs),
		Warning:         ingestWarning(truncated, len(inputs), batch),
		EmbeddingSource: batch.Source(),
		Duration:        time.Since(start),
	}

	ctxzap.Info(ctx, "document ingested",
		zap.Int("chunks", result.Chunks),
		zap.Int("raw_chunks", len(chunks)),
		zap.String("embedding_source", string(result.EmbeddingSource)),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// ListDocuments returns the session's documents oldest first.
func (uc *DocumentUsecase) ListDocuments(_ context.Context, sessionID string) []entity.DocumentSummary {
	return uc.documents.Summaries(sessionID)
}

func (uc *DocumentUsecase) writeFile(fh *multipart.FileHeader, path string) (int64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	size, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	return size, nil
}

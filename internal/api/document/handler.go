package document

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/pkg/logger"
	"github.com/futig/rag-playground/internal/pkg/response"
	"github.com/futig/rag-playground/internal/pkg/sessioncookie"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase     DocumentUsecase
	processor   Processor
	sessions    SessionUsecase
	cookies     *sessioncookie.Manager
	maxFormSize int64
}

func NewHandler(
	usecase DocumentUsecase,
	processor Processor,
	sessions SessionUsecase,
	cookies *sessioncookie.Manager,
	maxFormSize int64,
) *Handler {
	return &Handler{
		usecase:     usecase,
		processor:   processor,
		sessions:    sessions,
		cookies:     cookies,
		maxFormSize: maxFormSize,
	}
}

// Upload handles POST /upload - store a document and index it for RAG
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormSize)
	if err := r.ParseMultipartForm(h.maxFormSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(ctx, w, http.StatusBadRequest, "file_too_large", err)
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "invalid_form", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, fh, err := r.FormFile("file")
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "missing_field", errors.New("multipart field 'file' is required"))
		return
	}

	sessionID, issued := h.cookies.Ensure(w, r)
	ctx = logger.WithSession(ctx, sessionID)
	if issued {
		ctxzap.Info(ctx, "session issued")
	}

	stored, err := h.usecase.SaveUpload(ctx, sessionID, fh)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	h.sessions.Touch(ctx, sessionID)

	processed, err := h.processor.Process(ctx, toProcessDocumentRequest(sessionID, stored))
	if err != nil {
		ctxzap.Error(ctx, "document processing failed", zap.String("file_id", stored.FileID), zap.Error(err))
		processed = &entity.ProcessDocumentResponse{Warning: entity.ProcessingFailedWarning}
	}

	ctxzap.Info(ctx, "document uploaded",
		zap.String("file_id", stored.FileID),
		zap.Int("chunks", processed.Chunks),
		zap.String("warning", processed.Warning),
	)

	h.respondJSON(w, http.StatusOK, toUploadResponse(stored, processed))
}

// ProcessDocument handles POST /process-document - ingest a stored upload
func (h *Handler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ProcessDocument")

	var req entity.ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	ctx = logger.WithSession(ctx, req.SessionID)

	res, err := h.usecase.Ingest(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, entity.NewProcessDocumentResponse(&req, res))
}

// ListDocuments handles GET /documents - documents indexed for the session
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs := []entity.DocumentSummary{}
	if sessionID, ok := h.cookies.Read(r); ok {
		ctx = logger.WithSession(ctx, sessionID)
		docs = append(docs, h.usecase.ListDocuments(ctx, sessionID)...)
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(docs)))
	h.respondJSON(w, http.StatusOK, entity.ListDocumentsResponse{Documents: docs})
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, code string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, code, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, code, zap.Error(err))
	}
	response.Error(w, status, code, err.Error())
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrFileTooLarge):
		h.respondError(ctx, w, http.StatusBadRequest, "file_too_large", err)
	case errors.Is(err, entity.ErrInvalidFileType):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid_file_type", err)
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "missing_field", err)
	case errors.Is(err, entity.ErrInvalidFilePath):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid_file_path", err)
	case entity.IsIngestionRejection(err):
		h.respondError(ctx, w, http.StatusBadRequest, entity.RejectionCode(err), err)
	case errors.Is(err, entity.ErrStorage):
		h.respondError(ctx, w, http.StatusInternalServerError, "storage_error", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal_error", err)
	}
}

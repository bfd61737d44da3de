package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/pkg/logger"
	"github.com/futig/rag-playground/internal/pkg/response"
	"github.com/futig/rag-playground/internal/pkg/sessioncookie"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase     SessionUsecase
	cookies     *sessioncookie.Manager
	idleTimeout time.Duration
}

func NewHandler(usecase SessionUsecase, cookies *sessioncookie.Manager, idleTimeout time.Duration) *Handler {
	return &Handler{
		usecase:     usecase,
		cookies:     cookies,
		idleTimeout: idleTimeout,
	}
}

// Cleanup handles POST /cleanup - sweep idle sessions, then clear the caller's session.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Cleanup")

	idleCleaned := h.usecase.SweepIdle(ctx, h.idleTimeout)

	sessionID, _ := h.cookies.Read(r)
	if sessionID != "" {
		ctx = logger.WithSession(ctx, sessionID)
	}

	result, err := h.usecase.ClearSession(ctx, sessionID)
	if errors.Is(err, entity.ErrMissingSession) {
		ctxzap.Warn(ctx, "cleanup without session cookie", zap.Int("idle_cleaned", idleCleaned))
		response.JSON(w, http.StatusBadRequest, toMissingSessionResponse(idleCleaned))
		return
	}
	if err != nil {
		ctxzap.Error(ctx, "session cleanup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "Session cleanup failed")
		return
	}

	ctxzap.Info(ctx, "session cleanup finished",
		zap.Int("files_deleted", result.FilesDeleted),
		zap.Int("documents_cleared", result.DocumentsCleared),
		zap.Int("idle_cleaned", idleCleaned),
	)

	response.Success(w, toCleanupResponse(result, idleCleaned))
}

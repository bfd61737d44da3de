package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/pkg/logger"
	"github.com/futig/rag-playground/internal/pkg/response"
	"github.com/futig/rag-playground/internal/pkg/sessioncookie"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// RAGChunksHeader carries the number of document chunks injected into the prompt.
const RAGChunksHeader = "X-RAG-Chunks"

type Handler struct {
	usecase  ChatUsecase
	sessions SessionUsecase
	cookies  *sessioncookie.Manager
}

func NewHandler(usecase ChatUsecase, sessions SessionUsecase, cookies *sessioncookie.Manager) *Handler {
	return &Handler{
		usecase:  usecase,
		sessions: sessions,
		cookies:  cookies,
	}
}

// Chat handles POST /chat - stream a completion as server-sent events
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid_body", err)
		return
	}

	sessionID, _ := h.cookies.Read(r)
	if sessionID != "" {
		ctx = logger.WithSession(ctx, sessionID)
		h.sessions.Touch(ctx, sessionID)
	}

	completion, injected, err := h.usecase.Prepare(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	stream, err := h.usecase.Stream(ctx, completion)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	defer stream.Close()

	w.Header().Set(RAGChunksHeader, strconv.Itoa(injected))
	events := response.StartEvents(w)

	sent := 0
	for stream.Next() {
		if err := events.Data(stream.Chunk()); err != nil {
			ctxzap.Info(ctx, "client went away during stream", zap.Int("events", sent), zap.Error(err))
			return
		}
		sent++
	}

	if err := stream.Err(); err != nil {
		if ctx.Err() != nil {
			ctxzap.Info(ctx, "stream cancelled by client", zap.Int("events", sent))
			return
		}
		ctxzap.Error(ctx, "completion stream failed", zap.Int("events", sent), zap.Error(err))
		_ = events.Error("stream_error", err.Error())
		return
	}

	_ = events.Done()

	ctxzap.Info(ctx, "completion streamed",
		zap.Int("events", sent),
		zap.Int("rag_chunks", injected),
		zap.String("model", completion.Model),
	)
}

// Helper methods
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, code string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, code, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, code, zap.Error(err))
	}
	response.Error(w, status, code, err.Error())
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var upstream *entity.UpstreamError
	switch {
	case errors.As(err, &upstream):
		h.respondUpstreamError(ctx, w, upstream)
	case errors.Is(err, entity.ErrEmptyMessages):
		h.respondError(ctx, w, http.StatusBadRequest, "empty_messages", err)
	case errors.Is(err, entity.ErrMissingCredential):
		h.respondError(ctx, w, http.StatusBadRequest, "missing_credential", err)
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid_parameter", err)
	case errors.Is(err, context.Canceled):
		ctxzap.Info(ctx, "request cancelled before streaming started")
	default:
		h.respondError(ctx, w, http.StatusBadGateway, "upstream_unavailable", err)
	}
}

// respondUpstreamError passes the provider's status and body through.
func (h *Handler) respondUpstreamError(ctx context.Context, w http.ResponseWriter, upstream *entity.UpstreamError) {
	status := upstream.StatusCode
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusBadGateway
	}

	ctxzap.Warn(ctx, "completion rejected by provider",
		zap.Int("upstream_status", upstream.StatusCode),
		zap.String("upstream_body", upstream.Body),
	)

	if upstream.Body != "" && json.Valid([]byte(upstream.Body)) {
		response.Raw(w, status, []byte(upstream.Body))
		return
	}

	response.Error(w, status, "upstream_error", upstream.Body)
}

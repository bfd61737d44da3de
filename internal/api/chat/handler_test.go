package chat

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/integration/llm"
	"github.com/futig/rag-playground/internal/pkg/sessioncookie"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatUsecase struct {
	injected  int
	prepErr   error
	stream    entity.CompletionStream
	streamErr error
	sessionID string
}

func (s *stubChatUsecase) Prepare(_ context.Context, sessionID string, req *entity.ChatRequest) (*entity.CompletionRequest, int, error) {
	s.sessionID = sessionID
	if s.prepErr != nil {
		return nil, 0, s.prepErr
	}
	return &entity.CompletionRequest{Messages: req.Messages, Model: "test"}, s.injected, nil
}

func (s *stubChatUsecase) Stream(context.Context, *entity.CompletionRequest) (entity.CompletionStream, error) {
	return s.stream, s.streamErr
}

type touchRecorder struct {
	touched []string
}

func (t *touchRecorder) Touch(_ context.Context, sessionID string) {
	t.touched = append(t.touched, sessionID)
}

func serveChat(t *testing.T, uc ChatUsecase, sessions SessionUsecase, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, sessions, sessioncookie.NewManager("sessionId", false))
	req := httptest.NewRequest(http.MethodPost, "/chat",
		bytes.NewBufferString(`{"messages":[{"role":"user","content":"hi"}],"useRAG":true}`))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChat_StreamsEventsAndDone(t *testing.T) {
	uc := &stubChatUsecase{
		injected: 2,
		stream:   &llm.SliceStream{Chunks: [][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`)}},
	}
	sessions := &touchRecorder{}

	sessionID := uuid.NewString()
	rec := serveChat(t, uc, sessions, &http.Cookie{Name: "sessionId", Value: sessionID})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2", rec.Header().Get(RAGChunksHeader))
	assert.Equal(t, "data: {\"a\":1}\n\ndata: {\"b\":2}\n\ndata: [DONE]\n\n", rec.Body.String())
	assert.Equal(t, sessionID, uc.sessionID)
	assert.Equal(t, []string{sessionID}, sessions.touched)
}

func TestChat_MidStreamFailure(t *testing.T) {
	uc := &stubChatUsecase{
		stream: &llm.SliceStream{Chunks: [][]byte{[]byte(`{"a":1}`)}, Failure: errors.New("connection reset")},
	}

	rec := serveChat(t, uc, &touchRecorder{}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data: {\"a\":1}\n\n")
	assert.Contains(t, rec.Body.String(), "stream_error")
	assert.NotContains(t, rec.Body.String(), "[DONE]")
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name       string
		uc         *stubChatUsecase
		wantStatus int
		wantBody   string
	}{
		{
			name:       "empty messages",
			uc:         &stubChatUsecase{prepErr: entity.ErrEmptyMessages},
			wantStatus: http.StatusBadRequest,
			wantBody:   "empty_messages",
		},
		{
			name:       "missing credential",
			uc:         &stubChatUsecase{prepErr: entity.ErrMissingCredential},
			wantStatus: http.StatusBadRequest,
			wantBody:   "missing_credential",
		},
		{
			name: "upstream json body",
			uc: &stubChatUsecase{streamErr: &entity.UpstreamError{
				StatusCode: http.StatusUnauthorized,
				Body:       `{"error":{"message":"bad key"}}`,
			}},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":{"message":"bad key"}}`,
		},
		{
			name: "upstream text body",
			uc: &stubChatUsecase{streamErr: &entity.UpstreamError{
				StatusCode: http.StatusServiceUnavailable,
				Body:       "overloaded",
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "upstream_error",
		},
		{
			name:       "unreachable provider",
			uc:         &stubChatUsecase{streamErr: errors.New("dial tcp: connection refused")},
			wantStatus: http.StatusBadGateway,
			wantBody:   "upstream_unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveChat(t, tt.uc, &touchRecorder{}, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Empty(t, rec.Header().Get(RAGChunksHeader))
		})
	}
}

func TestChat_InvalidBody(t *testing.T) {
	h := NewHandler(&stubChatUsecase{}, &touchRecorder{}, sessioncookie.NewManager("sessionId", false))
	rec := httptest.NewRecorder()

	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

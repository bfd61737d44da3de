package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/futig/rag-playground/internal/pkg/sessioncookie"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// vocabulary maps each topic word to one embedding axis; the last axis keeps
// vectors away from zero.
var vocabulary = []string{"apple", "banana", "cherry"}

func keywordVector(text string) []float64 {
	lower := strings.ToLower(text)
	vec := make([]float64, len(vocabulary)+1)
	for i, word := range vocabulary {
		vec[i] = float64(strings.Count(lower, word))
	}
	vec[len(vocabulary)] = 0.01
	return vec
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// fakeProvider imitates the inference API: keyword embeddings and a fixed
// two-event completion stream. Completion bodies are recorded.
type fakeProvider struct {
	mu          sync.Mutex
	completions [][]upstreamMessage
	rejectChat  bool
}

func (p *fakeProvider) lastCompletion() []upstreamMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.completions) == 0 {
		return nil
	}
	return p.completions[len(p.completions)-1]
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/embeddings":
		var body struct {
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-embedding",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": keywordVector(body.Input)},
			},
			"usage": map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})

	case "/chat/completions":
		var body struct {
			Messages []upstreamMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		p.mu.Lock()
		p.completions = append(p.completions, body.Messages)
		p.mu.Unlock()

		if p.rejectChat {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Bananas", " are yellow."} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"test-chat\","+
				"\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", part)
		}
		w.Write([]byte("data: [DONE]\n\n"))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testEnv struct {
	server    *httptest.Server
	provider  *fakeProvider
	uploadDir string
	client    *http.Client
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()

	provider := &fakeProvider{}
	upstream := httptest.NewServer(provider)
	t.Cleanup(upstream.Close)

	uploadDir := t.TempDir()
	t.Setenv("LLM_SERVICE_URL", upstream.URL)
	t.Setenv("LLM_TOKEN", token)
	t.Setenv("UPLOAD_DIR", uploadDir)
	t.Setenv("PROCESSING_SERVICE_URL", "")
	t.Setenv("ENABLE_MOCKS", "false")
	t.Setenv("EMBEDDING_DIMENSION", fmt.Sprint(len(vocabulary)+1))
	t.Setenv("EMBEDDING_ITEM_DELAY", "0s")
	t.Setenv("EMBEDDING_BATCH_DELAY", "0s")
	t.Setenv("RAG_CHUNK_SIZE", "100")
	t.Setenv("RAG_CHUNK_OVERLAP", "0")
	t.Setenv("RAG_TOP_K", "1")

	cfg, err := config.ParseEnv()
	require.NoError(t, err)

	router, err := buildRouter(cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:    srv,
		provider:  provider,
		uploadDir: uploadDir,
		client:    srv.Client(),
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) upload(t *testing.T, name string, content []byte, cookie *http.Cookie) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(t, req, cookie)
}

func (e *testEnv) postJSON(t *testing.T, path string, payload any, cookie *http.Cookie) *http.Response {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req, cookie)
}

func (e *testEnv) listDocuments(t *testing.T, cookie *http.Cookie) entity.ListDocumentsResponse {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, e.server.URL+"/documents", nil)
	require.NoError(t, err)
	resp := e.do(t, req, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out entity.ListDocumentsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// topicPDF renders one long paragraph per vocabulary word.
func topicPDF(t *testing.T) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 11)
	for _, word := range vocabulary {
		doc.MultiCell(0, 6, strings.Repeat(word+" ", 50), "", "L", false)
		doc.Ln(4)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestPlayground_UploadChatCleanup(t *testing.T) {
	env := newTestEnv(t, "test-key")

	// Upload issues a session and indexes the document in process.
	resp := env.upload(t, "fruit.pdf", topicPDF(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	var uploaded entity.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.True(t, uploaded.Success)
	assert.Equal(t, "fruit.pdf", uploaded.Filename)
	assert.Equal(t, entity.MimePDF, uploaded.Type)
	assert.Positive(t, uploaded.Chunks)
	assert.Equal(t, entity.EmbeddingSourceRemote, uploaded.EmbeddingSource)

	stored, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0].Name(), cookie.Value+"__"+uploaded.FileID))
	assert.Equal(t, ".pdf", filepath.Ext(stored[0].Name()))

	docs := env.listDocuments(t, cookie)
	require.Len(t, docs.Documents, 1)
	assert.Equal(t, uploaded.FileID, docs.Documents[0].FileID)
	assert.Equal(t, uploaded.Chunks, docs.Documents[0].Chunks)

	// Chat with retrieval: the best chunk goes right before the last user turn.
	chatResp := env.postJSON(t, "/chat", entity.ChatRequest{
		Messages: []entity.ChatMessage{
			{Role: entity.RoleUser, Content: "Hello"},
			{Role: entity.RoleAssistant, Content: "Hi, how can I help?"},
			{Role: entity.RoleUser, Content: "What does the document say about banana?"},
		},
		UseRAG: true,
	}, cookie)
	require.Equal(t, http.StatusOK, chatResp.StatusCode)
	assert.Equal(t, "text/event-stream", chatResp.Header.Get("Content-Type"))
	assert.Equal(t, "1", chatResp.Header.Get("X-RAG-Chunks"))

	streamed, err := io.ReadAll(chatResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(streamed), "Bananas")
	assert.True(t, strings.HasSuffix(string(streamed), "data: [DONE]\n\n"))

	sent := env.provider.lastCompletion()
	require.Len(t, sent, 4)
	assert.Equal(t, "Hello", sent[0].Content)
	assert.Equal(t, entity.RoleSystem, sent[2].Role)
	assert.Contains(t, sent[2].Content, "banana")
	assert.NotContains(t, sent[2].Content, "apple")
	assert.NotContains(t, sent[2].Content, "cherry")
	assert.Equal(t, entity.RoleUser, sent[3].Role)
	assert.Equal(t, "What does the document say about banana?", sent[3].Content)

	// Cleanup removes files and documents of the session.
	cleanupResp := env.postJSON(t, "/cleanup", nil, cookie)
	require.Equal(t, http.StatusOK, cleanupResp.StatusCode)

	var cleaned entity.CleanupResponse
	require.NoError(t, json.NewDecoder(cleanupResp.Body).Decode(&cleaned))
	assert.True(t, cleaned.Success)
	require.NotNil(t, cleaned.Uploads)
	assert.Equal(t, 1, cleaned.Uploads.Deleted)
	require.NotNil(t, cleaned.DocumentStore)
	assert.Equal(t, 1, cleaned.DocumentStore.Cleared)

	stored, err = os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, env.listDocuments(t, cookie).Documents)

	// Without documents the request is forwarded unchanged.
	chatResp = env.postJSON(t, "/chat", entity.ChatRequest{
		Messages: []entity.ChatMessage{{Role: entity.RoleUser, Content: "banana?"}},
		UseRAG:   true,
	}, cookie)
	require.Equal(t, http.StatusOK, chatResp.StatusCode)
	assert.Equal(t, "0", chatResp.Header.Get("X-RAG-Chunks"))
	assert.Len(t, env.provider.lastCompletion(), 1)
}

func TestPlayground_ShortDocumentIsInjectedVerbatim(t *testing.T) {
	env := newTestEnv(t, "test-key")
	const text = "Hello world, this is a test document with enough content."

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.Cell(0, 10, text)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	resp := env.upload(t, "hello.pdf", buf.Bytes(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploaded entity.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.True(t, uploaded.Success)
	assert.GreaterOrEqual(t, uploaded.Chunks, 1)

	chatResp := env.postJSON(t, "/chat", entity.ChatRequest{
		Messages: []entity.ChatMessage{{Role: entity.RoleUser, Content: "What is this test document about?"}},
		UseRAG:   true,
	}, sessionCookie(t, resp))
	require.Equal(t, http.StatusOK, chatResp.StatusCode)

	sent := env.provider.lastCompletion()
	require.Len(t, sent, 2)
	assert.Equal(t, entity.RoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "Hello world")
	assert.Contains(t, sent[0].Content, "enough content.")
}

func TestPlayground_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, "test-key")

	first := sessionCookie(t, env.upload(t, "fruit.pdf", topicPDF(t), nil))
	second := sessionCookie(t, env.upload(t, "fruit.pdf", topicPDF(t), nil))
	require.NotEqual(t, first.Value, second.Value)

	resp := env.postJSON(t, "/cleanup", nil, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Empty(t, env.listDocuments(t, first).Documents)
	assert.Len(t, env.listDocuments(t, second).Documents, 1)

	stored, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0].Name(), second.Value+"__"))
}

func TestPlayground_TamperedSessionCookie(t *testing.T) {
	env := newTestEnv(t, "test-key")
	tampered := &http.Cookie{Name: "sessionId", Value: "../escaped"}

	resp := env.upload(t, "fruit.pdf", topicPDF(t), tampered)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	issued := sessionCookie(t, resp)
	assert.NotEqual(t, tampered.Value, issued.Value)
	assert.True(t, sessioncookie.Valid(issued.Value))

	escaped, err := filepath.Glob(filepath.Join(filepath.Dir(env.uploadDir), "escaped__*"))
	require.NoError(t, err)
	assert.Empty(t, escaped)

	stored, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0].Name(), issued.Value+"__"))

	// A tampered cookie on cleanup counts as no session at all.
	cleanupResp := env.postJSON(t, "/cleanup", nil, tampered)
	assert.Equal(t, http.StatusBadRequest, cleanupResp.StatusCode)
	assert.Len(t, env.listDocuments(t, issued).Documents, 1)
}

func TestPlayground_UploadRejections(t *testing.T) {
	env := newTestEnv(t, "test-key")

	resp := env.upload(t, "notes.txt", []byte("plain text is not accepted"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Accepted for upload, refused for retrieval.
	resp = env.upload(t, "broken.pdf", []byte("not really a pdf"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploaded entity.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.True(t, uploaded.Success)
	assert.Zero(t, uploaded.Chunks)
	assert.NotEmpty(t, uploaded.Warning)
	assert.Empty(t, env.listDocuments(t, sessionCookie(t, resp)).Documents)
}

func TestPlayground_ChatErrors(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		env := newTestEnv(t, "")

		resp := env.postJSON(t, "/chat", entity.ChatRequest{
			Messages: []entity.ChatMessage{{Role: entity.RoleUser, Content: "hi"}},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Nil(t, env.provider.lastCompletion())
	})

	t.Run("empty messages", func(t *testing.T) {
		env := newTestEnv(t, "test-key")

		resp := env.postJSON(t, "/chat", entity.ChatRequest{}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("upstream rejection is passed through", func(t *testing.T) {
		env := newTestEnv(t, "test-key")
		env.provider.rejectChat = true

		resp := env.postJSON(t, "/chat", entity.ChatRequest{
			Messages: []entity.ChatMessage{{Role: entity.RoleUser, Content: "hi"}},
		}, nil)

		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "rate limited")
	})
}

func TestPlayground_CleanupWithoutSession(t *testing.T) {
	env := newTestEnv(t, "test-key")

	resp := env.postJSON(t, "/cleanup", nil, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out entity.CleanupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.Equal(t, "No sessionId found in cookies.", out.Error)
}

func TestPlayground_Health(t *testing.T) {
	env := newTestEnv(t, "test-key")

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/health", nil)
	require.NoError(t, err)
	resp := env.do(t, req, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetupLogger(t *testing.T) {
	logger, err := setupLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = setupLogger("loud")
	assert.Error(t, err)
}

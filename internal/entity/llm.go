package entity

// Chat roles accepted from the front end.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int64        `json:"maxTokens,omitempty"`
	UseRAG      bool          `json:"useRAG"`
}

// CompletionRequest is a fully resolved upstream completion call.
type CompletionRequest struct {
	Messages    []ChatMessage
	Model       string
	Temperature float64
	MaxTokens   int64
}

// CompletionStream yields raw upstream event payloads as they arrive.
type CompletionStream interface {
	Next() bool
	Chunk() []byte
	Err() error
	Close() error
}

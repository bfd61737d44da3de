package entity

import "time"

// MIME types accepted on upload.
const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Document is the RAG state derived from one uploaded file. Chunks[i] is
// embedded by Embeddings[i].
type Document struct {
	FileID     string
	Filename   string
	Chunks     []string
	Embeddings [][]float32
	CreatedAt  time.Time
}

// Pairs returns the number of usable (chunk, embedding) pairs. A length
// mismatch is truncated to the shorter slice.
func (d *Document) Pairs() int {
	return min(len(d.Chunks), len(d.Embeddings))
}

// DocumentSummary is the listing view of a stored Document.
type DocumentSummary struct {
	FileID    string    `json:"fileId"`
	Filename  string    `json:"filename"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScoredChunk is a retrieval candidate.
type ScoredChunk struct {
	FileID string
	Text   string
	Score  float64
}

// EmbeddingSource tells where the vectors of a batch came from.
type EmbeddingSource string

const (
	EmbeddingSourceRemote   EmbeddingSource = "remote"
	EmbeddingSourceFallback EmbeddingSource = "fallback"
	EmbeddingSourceMixed    EmbeddingSource = "mixed"
)

// EmbeddingBatch holds one vector per embedded text, in input order.
type EmbeddingBatch struct {
	Vectors       [][]float32
	FallbackCount int
}

// Degraded reports whether at least one vector is a local fallback.
func (b *EmbeddingBatch) Degraded() bool {
	return b.FallbackCount > 0
}

func (b *EmbeddingBatch) Source() EmbeddingSource {
	switch {
	case b.FallbackCount == 0:
		return EmbeddingSourceRemote
	case b.FallbackCount >= len(b.Vectors):
		return EmbeddingSourceFallback
	default:
		return EmbeddingSourceMixed
	}
}

// StoredFile describes an upload persisted in the upload directory.
type StoredFile struct {
	FileID   string
	Filename string
	Path     string
	Size     int64
	Type     string
}

// ClearResult reports what an explicit session cleanup removed.
type ClearResult struct {
	FilesDeleted     int
	DocumentsCleared int
}

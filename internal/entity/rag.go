package entity

import "time"

// ProcessDocumentRequest is the server-to-server body of POST /process-document.
type ProcessDocumentRequest struct {
	SessionID string `json:"sessionId"`
	FileID    string `json:"fileId"`
	Filename  string `json:"filename"`
	Filepath  string `json:"filepath"`
	FileType  string `json:"fileType"`
}

// ProcessDocumentResponse is returned by POST /process-document.
type ProcessDocumentResponse struct {
	FileID          string          `json:"fileId"`
	Filename        string          `json:"filename"`
	Chunks          int             `json:"chunks"`
	Warning         string          `json:"warning,omitempty"`
	ProcessingTime  int64           `json:"processingTime"`
	EmbeddingSource EmbeddingSource `json:"embeddingSource,omitempty"`
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Chunks          int
	Warning         string
	EmbeddingSource EmbeddingSource
	Duration        time.Duration
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Success         bool            `json:"success"`
	FileID          string          `json:"fileId"`
	Filename        string          `json:"filename"`
	Size            int64           `json:"size"`
	Type            string          `json:"type"`
	Chunks          int             `json:"chunks"`
	Warning         string          `json:"warning,omitempty"`
	EmbeddingSource EmbeddingSource `json:"embeddingSource,omitempty"`
}

type ListDocumentsResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

// NewProcessDocumentResponse reports a finished ingestion of req.
func NewProcessDocumentResponse(req *ProcessDocumentRequest, res *IngestResult) *ProcessDocumentResponse {
	return &ProcessDocumentResponse{
		FileID:          req.FileID,
		Filename:        req.Filename,
		Chunks:          res.Chunks,
		Warning:         res.Warning,
		ProcessingTime:  res.Duration.Milliseconds(),
		EmbeddingSource: res.EmbeddingSource,
	}
}

package document

import "github.com/futig/rag-playground/internal/entity"

func toUploadResponse(stored *entity.StoredFile, processed *entity.ProcessDocumentResponse) *entity.UploadResponse {
	return &entity.UploadResponse{
		Success:         true,
		FileID:          stored.FileID,
		Filename:        stored.Filename,
		Size:            stored.Size,
		Type:            stored.Type,
		Chunks:          processed.Chunks,
		Warning:         processed.Warning,
		EmbeddingSource: processed.EmbeddingSource,
	}
}

func toProcessDocumentRequest(sessionID string, stored *entity.StoredFile) *entity.ProcessDocumentRequest {
	return &entity.ProcessDocumentRequest{
		SessionID: sessionID,
		FileID:    stored.FileID,
		Filename:  stored.Filename,
		Filepath:  stored.Path,
		FileType:  stored.Type,
	}
}

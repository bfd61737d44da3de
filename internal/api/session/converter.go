package session

import "github.com/futig/rag-playground/internal/entity"

const (
	missingSessionMessage = "No sessionId found in cookies."
	cleanupMessage        = "Session data cleaned up."
)

func toCleanupResponse(result entity.ClearResult, idleCleaned int) *entity.CleanupResponse {
	return &entity.CleanupResponse{
		Success:       true,
		Uploads:       &entity.UploadsCleanup{Deleted: result.FilesDeleted},
		DocumentStore: &entity.DocumentStoreCleanup{Cleared: result.DocumentsCleared},
		IdleCleaned:   idleCleaned,
		Message:       cleanupMessage,
	}
}

func toMissingSessionResponse(idleCleaned int) *entity.CleanupResponse {
	return &entity.CleanupResponse{
		Success:     false,
		Error:       missingSessionMessage,
		IdleCleaned: idleCleaned,
	}
}

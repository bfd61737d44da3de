package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/rag-playground/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// deleteSessionFiles removes the entries owned by sessionID and returns the
// number actually removed. Files already gone are skipped silently.
func (uc *SessionUsecase) deleteSessionFiles(ctx context.Context, entries []os.DirEntry, sessionID string) int {
	prefix := validator.StoredFilePrefix(sessionID)

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		path := filepath.Join(uc.uploadDir, entry.Name())
		if err := uc.remove(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				ctxzap.Warn(ctx, "failed to delete uploaded file",
					zap.String("path", path),
					zap.Error(err),
				)
			}
			continue
		}
		deleted++
	}

	return deleted
}

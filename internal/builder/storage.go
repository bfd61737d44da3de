package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/repository"
	"go.uber.org/zap"
)

type storage struct {
	documents *repository.DocumentMemory
	activity  *repository.ActivityCache
	uploadDir string
}

// setupStorage prepares the upload directory and the in-memory session
// stores. Nothing survives a restart.
func setupStorage(cfg *config.Config, logger *zap.Logger) (*storage, error) {
	dir, err := filepath.Abs(cfg.FileUploadCfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	logger.Info("session storage initialized",
		zap.String("upload_dir", dir),
		zap.Duration("idle_timeout", cfg.SessionCfg.IdleTimeout),
	)

	return &storage{
		documents: repository.NewDocumentMemory(),
		activity:  repository.NewActivityCache(),
		uploadDir: dir,
	}, nil
}

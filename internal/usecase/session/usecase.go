package session

import (
	"context"
	"os"
	"time"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SessionUsecase owns the lifecycle of ephemeral sessions: their activity
// timestamps, uploaded files and stored documents.
type SessionUsecase struct {
	documents DocumentStore
	activity  ActivityStore
	uploadDir string
	now       func() time.Time
	remove    func(path string) error
	logger    *zap.Logger
}

// NewUsecase creates a new session use case
func NewUsecase(
	documents DocumentStore,
	activity ActivityStore,
	uploadDir string,
	logger *zap.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		documents: documents,
		activity:  activity,
		uploadDir: uploadDir,
		now:       time.Now,
		remove:    os.Remove,
		logger:    logger,
	}
}

// Touch records now as the session's last activity.
func (uc *SessionUsecase) Touch(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	uc.activity.Touch(sessionID, uc.now())
	ctxzap.Debug(ctx, "session touched")
}

// SweepIdle reclaims every session idle for longer than threshold and
// returns how many were reclaimed. File deletion failures are logged and do
// not stop the sweep.
func (uc *SessionUsecase) SweepIdle(ctx context.Context, threshold time.Duration) int {
	now := uc.now()
	snapshot := uc.activity.Snapshot()

	var idle []string
	for sessionID, last := range snapshot {
		if now.Sub(last) > threshold {
			idle = append(idle, sessionID)
		}
	}

	// Documents stored after their session was cleared have no activity
	// entry. Start their idle clock now so a later sweep reclaims them.
	for _, sessionID := range uc.documents.Sessions() {
		if _, ok := snapshot[sessionID]; ok {
			continue
		}
		if _, ok := uc.activity.LastActivity(sessionID); !ok {
			uc.activity.Touch(sessionID, now)
			ctxzap.Debug(ctx, "untracked session adopted", zap.String("swept_session_id", sessionID))
		}
	}

	if len(idle) == 0 {
		return 0
	}

	entries := uc.listUploads(ctx)

	reclaimed := 0
	for _, sessionID := range idle {
		// Skip sessions that became active after the snapshot.
		if last, ok := uc.activity.LastActivity(sessionID); ok && now.Sub(last) <= threshold {
			continue
		}

		sessionCtx := ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("swept_session_id", sessionID)))
		files := uc.deleteSessionFiles(sessionCtx, entries, sessionID)
		docs := uc.documents.Delete(sessionID)
		uc.activity.Delete(sessionID)
		reclaimed++

		ctxzap.Info(sessionCtx, "idle session reclaimed",
			zap.Int("files_deleted", files),
			zap.Int("documents_cleared", docs),
		)
	}

	return reclaimed
}

// ClearSession removes the session's files, documents and activity entry
// regardless of idle time.
func (uc *SessionUsecase) ClearSession(ctx context.Context, sessionID string) (entity.ClearResult, error) {
	if sessionID == "" {
		return entity.ClearResult{}, entity.ErrMissingSession
	}

	result := entity.ClearResult{
		FilesDeleted:     uc.deleteSessionFiles(ctx, uc.listUploads(ctx), sessionID),
		DocumentsCleared: uc.documents.Delete(sessionID),
	}
	uc.activity.Delete(sessionID)

	ctxzap.Info(ctx, "session cleared",
		zap.Int("files_deleted", result.FilesDeleted),
		zap.Int("documents_cleared", result.DocumentsCleared),
	)

	return result, nil
}

func (uc *SessionUsecase) listUploads(ctx context.Context) []os.DirEntry {
	entries, err := os.ReadDir(uc.uploadDir)
	if err != nil && !os.IsNotExist(err) {
		ctxzap.Warn(ctx, "failed to list upload directory",
			zap.String("dir", uc.uploadDir),
			zap.Error(err),
		)
	}
	return entries
}

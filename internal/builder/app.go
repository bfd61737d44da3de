package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// App owns the HTTP server of the playground. All session state lives in
// memory and goes away with the process.
type App struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// Run serves until SIGINT/SIGTERM or a listener failure, then drains open
// requests, chat streams included, for at most the shutdown timeout.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		return err
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	defer func() { _ = a.logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully", zap.Duration("timeout", a.shutdownTimeout))

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

package middleware

import (
	"net/http"
	"time"

	pkgHTTP "github.com/futig/rag-playground/pkg/http"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietPaths are polled by probes and the UI; they log at debug.
var quietPaths = map[string]bool{
	"/health":    true,
	"/documents": true,
}

// Logger is a middleware that logs HTTP requests and puts a request scoped
// logger and the request id into the context.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())
			reqLogger := logger.With(
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			startLevel := zapcore.InfoLevel
			if quietPaths[r.URL.Path] {
				startLevel = zapcore.DebugLevel
			}
			reqLogger.Log(startLevel, "Start handle HTTP request", zap.String("remote_addr", r.RemoteAddr))

			ctx := ctxzap.ToContext(r.Context(), reqLogger)
			ctx = pkgHTTP.ContextWithRequestID(ctx, requestID)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Log(finishLevel(r.URL.Path, ww.Status()), "Finish handle HTTP request",
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func finishLevel(path string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case quietPaths[path]:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

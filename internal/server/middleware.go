package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// accessLog writes one zap line per request. Hover and leave traffic is
// logged at debug level.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}

		log := zap.L().With(zap.String("component", "http"))
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case isPointerTraffic(r.URL.Path):
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	})
}

func isPointerTraffic(path string) bool {
	return strings.HasSuffix(path, "/hover") || strings.HasSuffix(path, "/leave")
}

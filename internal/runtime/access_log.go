package runtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
)

// AccessLog logs one line per request once next has returned, including requests whose handler error
// is re-raised.
func AccessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.Metrics{Code: http.StatusOK}
		start := time.Now()
		defer func() {
			logger.Info("request",
				slog.String("remote", r.RemoteAddr),
				slog.String("method", r.Method),
				slog.String("target", r.RequestURI),
				slog.String("proto", r.Proto),
				slog.Int("status", m.Code),
				slog.Int64("bytes", m.Written),
				slog.Duration("duration", time.Since(start)))
		}()
		m.CaptureMetrics(w, func(ww http.ResponseWriter) {
			next.ServeHTTP(ww, r)
		})
	})
}

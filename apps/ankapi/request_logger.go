package ankapi

import (
	"net/http"
	"time"

	"github.com/ankproject/ank-api/internal/ip"
	"github.com/ankproject/ank-api/pkg/logging"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one structured log line per served request.
type RequestLogger struct {
	logger logging.KVLogger
}

func (rl *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		entry := []any{
			"status", ww.Status(),
			"method", r.Method,
			"remote_addr", ip.FromRequest(r),
			"latency", time.Since(start).String(),
			"bytes_out", ww.BytesWritten(),
		}

		if ww.Status() >= http.StatusBadRequest {
			rl.logger.Info(r.URL.Path, entry...)
			return
		}
		rl.logger.Debug(r.URL.Path, entry...)
	})
}

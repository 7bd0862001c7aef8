package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/vouch/pkg/auth"
)

// Logger returns middleware that logs one line per request once it completes.
// The line carries the request id and resolved actor when the RequestID and
// auth middleware run before it; server errors log at Error, client errors at Warn.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			var actor *auth.Actor
			next.ServeHTTP(rw, r.WithContext(auth.TrackActor(r.Context(), &actor)))

			attrs := []any{
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", rw.status,
				"bytes", rw.bytes,
				"addr", ClientIP(r),
				"duration", time.Since(start),
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if actor == nil {
				actor = auth.FromContext(r.Context())
			}
			if actor != nil {
				attrs = append(attrs, "actor", actor.ID)
			}

			logger.Log(r.Context(), levelFor(rw.status), "request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

package core

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"
)

// MaxAgeHandler wraps an HTTP handler to set cache control headers based on file extension.
// CSS files are cached for 1 day; all other static files for 1 year.
func MaxAgeHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if filepath.Ext(req.URL.Path) == ".css" {
			w.Header().Set("Cache-Control", "max-age=86400") // 1 day
		} else {
			w.Header().Set("Cache-Control", "max-age=31536000, immutable") // 1 year
		}
		h.ServeHTTP(w, req)
	})
}

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// AccessLog logs one line per request, after the wrapped handler has finished.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		level := slog.LevelDebug
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(req.Context(), level, "request served",
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"from", ReadUserIP(req),
			"agent", GetCanonicalUserAgent(req.UserAgent()))
	})
}

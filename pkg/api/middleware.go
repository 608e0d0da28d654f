package api

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// logFrom returns the request-scoped logger set by requestLogger.
func logFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// statusWriter remembers the status code and how many body bytes went out,
// so later stages can tell whether the response has started.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(p []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(p)
	sw.written += int64(n)
	return n, err
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

func (sw *statusWriter) started() bool {
	return sw.status != 0
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		l := slog.Default().With("req_id", id)
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()

		defer func() {
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			l.Info("Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", sw.written,
				"duration", time.Since(start),
				"remote", r.RemoteAddr)
		}()

		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), ctxKey{}, l)))
	})
}

// recoverer turns a panic into a 500 if nothing was sent yet; otherwise the
// connection is aborted.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logFrom(r.Context()).Error("Internal error",
				"panic", rec,
				"path", r.URL.Path,
				"url", r.URL.Query().Get("url"),
				"stack", string(debug.Stack()))

			if sw, ok := w.(*statusWriter); ok && sw.started() {
				panic(http.ErrAbortHandler)
			}
			w.Header().Del("Transfer-Encoding")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

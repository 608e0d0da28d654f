package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/imbecility/dj-audio-gateway/pkg/config"
	"github.com/imbecility/dj-audio-gateway/pkg/media"
)

const livenessMessage = "DJ Audio API is running"

type Server struct {
	Config config.Config
	Source media.Source
}

func NewServer(cfg config.Config, src media.Source) *Server {
	return &Server{Config: cfg, Source: src}
}

// Handler builds the full middleware chain and routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /resolve", s.requireAPIKey(http.HandlerFunc(s.handleResolve)))

	var stream http.Handler = http.HandlerFunc(s.handleStream)
	if s.Config.StreamAuth {
		stream = s.requireAPIKey(stream)
	}
	mux.Handle("GET /stream", stream)

	mux.HandleFunc("GET /{$}", s.handleLiveness)

	if s.Config.WebUI {
		mux.HandleFunc("GET /ui", s.handleWebIndex)
	}

	return requestLogger(recoverer(cors(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: audio streams run as long as the track.
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("DJ Audio API listening",
			"addr", fmt.Sprintf("http://localhost:%d", s.Config.Port),
			"backend", s.Source.Name(),
			"auth", s.Config.AuthEnabled(),
			"stream_auth", s.Config.AuthEnabled() && s.Config.StreamAuth,
			"web_ui", s.Config.WebUI)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(livenessMessage))
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	jerr := json.NewEncoder(w).Encode(data)
	if jerr != nil {
		slog.Error("JSON encoding failed", "error", jerr)
	}
}

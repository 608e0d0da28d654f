package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
	"github.com/imbecility/dj-audio-gateway/pkg/utils"
)

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		logFrom(r.Context()).Debug("Rejected stream", "reason", models.ErrMalformedRequest)
		http.Error(w, "Missing url parameter", http.StatusBadRequest)
		return
	}

	if !utils.IsYouTubeURL(target) || !s.Source.Validate(target) {
		logFrom(r.Context()).Info("Rejected stream", "url", target, "reason", models.ErrInvalidURL)
		http.Error(w, "Invalid YouTube URL", http.StatusBadRequest)
		return
	}

	log := logFrom(r.Context()).With("url", target)
	log.Info("Streaming audio", "backend", s.Source.Name())

	// r.Context() is cancelled when the client disconnects, which aborts
	// the upstream transfer as well.
	stream, err := s.Source.OpenAudioStream(r.Context(), target)
	if err != nil {
		log.Error("Stream error", "stage", "open", "err", err)
		http.Error(w, "Error while streaming", http.StatusInternalServerError)
		return
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			log.Debug("Failed to close upstream stream", "err", cerr)
		}
	}()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Transfer-Encoding", "chunked")

	now := time.Now()
	pm := &progressMeter{Logger: log, Target: target, Started: now, LastPrint: now}
	err = relay(w, stream, make([]byte, s.Config.ReadAheadBytes), pm)

	switch {
	case err == nil:
		log.Info("Stream finished", "bytes", pm.Relayed, "duration", time.Since(now))
	case errors.Is(err, errClientGone) || r.Context().Err() != nil:
		log.Info("Client disconnected", "bytes", pm.Relayed, "err", err)
	case pm.Relayed == 0:
		log.Error("Stream error", "stage", "first read", "err", err)
		w.Header().Del("Transfer-Encoding")
		http.Error(w, "Error while streaming", http.StatusInternalServerError)
	default:
		// Status and part of the body are out: cut the connection without
		// a terminating chunk.
		log.Error("Stream error", "stage", "relay", "bytes", pm.Relayed, "err", err)
		panic(http.ErrAbortHandler)
	}
}

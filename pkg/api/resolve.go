package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
	"github.com/imbecility/dj-audio-gateway/pkg/utils"
)

const maxResolveBody = 100 << 10

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	log := logFrom(r.Context())

	var req models.ResolveRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResolveBody)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Bad resolve body", "err", err)
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	if req.URL == "" {
		log.Debug("Rejected resolve", "reason", models.ErrMalformedRequest)
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing url in body"})
		return
	}

	// Anything that is not YouTube is assumed to be playable as-is.
	if !utils.IsYouTubeURL(req.URL) {
		s.respondJSON(w, http.StatusOK, models.ResolveResponse{AudioURL: req.URL})
		return
	}

	if !s.Source.Validate(req.URL) {
		log.Info("Rejected resolve", "url", req.URL, "reason", models.ErrInvalidURL)
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid YouTube URL"})
		return
	}

	s.respondJSON(w, http.StatusOK, models.ResolveResponse{AudioURL: s.streamURL(r, req.URL)})
}

// streamURL builds <base>/stream?url=<target>, where base is the configured
// public base URL or the scheme://host the request came in on.
func (s *Server) streamURL(r *http.Request, target string) string {
	base := s.Config.BaseURL()
	if base == "" {
		base = requestOrigin(r)
	}
	return base + "/stream?url=" + utils.EncodeURIComponent(target)
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		proto = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		if proto == "http" || proto == "https" {
			scheme = proto
		}
	}
	return scheme + "://" + r.Host
}

package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

// presentedKey returns the first credential found, in order: X-API-Key,
// X-Authorization, ?api_key=.
func presentedKey(r *http.Request) string {
	if k := r.Header.Get("X-API-Key"); k != "" {
		return k
	}
	if k := r.Header.Get("X-Authorization"); k != "" {
		return k
	}
	return r.URL.Query().Get("api_key")
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Config.AuthEnabled() {
			next.ServeHTTP(w, r)
			return
		}

		key := presentedKey(r)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.Config.APIKey)) != 1 {
			logFrom(r.Context()).Warn("Rejected request", "path", r.URL.Path, "reason", models.ErrUnauthorized, "remote", r.RemoteAddr)
			s.respondJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or missing API key"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

package providers

import (
	"context"
	"net/http"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider asks a third-party download site for a direct audio-only link.
type Provider interface {
	Name() string
	GetAudioLink(ctx context.Context, youtubeURL string) (*models.AudioResult, error)
}

package gateway

import (
	"fmt"
	"log/slog"

	"github.com/imbecility/dj-audio-gateway/pkg/client"
	"github.com/imbecility/dj-audio-gateway/pkg/config"
	"github.com/imbecility/dj-audio-gateway/pkg/logger"
	"github.com/imbecility/dj-audio-gateway/pkg/media"
	"github.com/imbecility/dj-audio-gateway/pkg/providers"
)

// New sets up logging and builds the media source selected by cfg.Backend.
// cfg must already be validated.
func New(cfg config.Config) (media.Source, error) {
	// Setup the logger (globally)
	logger.SetupGlobal(cfg.Debug, false, cfg.LogFormat)

	// Initialize the HTTP client
	httpClient, err := client.NewHttpClient(client.Options{
		ProxyURL: cfg.ProxyURL,
		Timeout:  cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init http client: %w", err)
	}

	switch cfg.Backend {
	case config.BackendYouTube:
		return media.NewYouTube(httpClient.Standard()), nil

	case config.BackendProviders:
		// mp3 converters first; the race returns early on an mp3 link anyway
		provs := []providers.Provider{
			&providers.LoaderDo{Client: httpClient},
			&providers.Clipto{Client: httpClient},
			&providers.GetSave{Client: httpClient},
		}
		slog.Debug("Providers registered", "count", len(provs))
		return NewService(httpClient, provs, cfg.ProviderTimeout), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

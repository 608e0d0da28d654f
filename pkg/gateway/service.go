package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
	"github.com/imbecility/dj-audio-gateway/pkg/providers"
	"github.com/imbecility/dj-audio-gateway/pkg/utils"
)

// preferredWait is how long a race keeps waiting for an mp3 link once a
// link in another container has arrived.
const preferredWait = 2500 * time.Millisecond

const preferredMime = "audio/mpeg"

// Service is a media source backed by third-party download sites. It races
// every provider for a direct audio link and streams whichever wins.
type Service struct {
	Providers []providers.Provider
	Client    providers.HTTPClient
	Timeout   time.Duration
}

func NewService(client providers.HTTPClient, provs []providers.Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		Client:    client,
		Providers: provs,
		Timeout:   timeout,
	}
}

func (s *Service) Name() string { return "providers" }

func (s *Service) Validate(rawURL string) bool {
	return utils.ValidateURL(rawURL)
}

func (s *Service) OpenAudioStream(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	res, providerName, err := s.GetAudioLink(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	slog.Info("Link acquired", "provider", providerName, "video", res.VideoID, "mime", res.MimeType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.AudioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: bad link from %s: %w", models.ErrUpstream, providerName, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch audio: %w", models.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		cerr := resp.Body.Close()
		if cerr != nil {
			slog.Warn("Failed to close response body", "err", cerr)
		}
		return nil, fmt.Errorf("%w: audio link returned http status %d", models.ErrUpstream, resp.StatusCode)
	}
	return resp.Body, nil
}

// GetAudioLink canonicalizes rawURL and runs a single provider race with
// the configured timeout.
func (s *Service) GetAudioLink(ctx context.Context, rawURL string) (*models.AudioResult, string, error) {
	vidID, err := utils.ExtractVideoID(rawURL)
	if err != nil {
		return nil, "", err
	}
	fullURL := utils.WatchURL(vidID)

	slog.Debug("Starting race", "url", fullURL, "providers", len(s.Providers))

	raceCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	res, name, err := s.raceProviders(raceCtx, fullURL)
	if err != nil {
		return nil, "", err
	}
	res.VideoID = vidID
	return res, name, nil
}

func (s *Service) raceProviders(ctx context.Context, url string) (*models.AudioResult, string, error) {
	type raceResult struct {
		res  *models.AudioResult
		name string
		err  error
	}

	if len(s.Providers) == 0 {
		return nil, "", models.ErrAllProvidersFailed
	}

	resultChan := make(chan raceResult, len(s.Providers))

	for _, p := range s.Providers {
		go func(p providers.Provider) {
			res, err := p.GetAudioLink(ctx, url)
			select {
			case <-ctx.Done():
				return
			case resultChan <- raceResult{res: res, name: p.Name(), err: err}:
			}
		}(p)
	}

	var bestFallback *raceResult
	var timeoutCh <-chan time.Time
	responsesCount := 0
	totalProvs := len(s.Providers)

	for {
		select {
		case r := <-resultChan:
			responsesCount++
			if r.err != nil {
				slog.Debug("Provider response", "provider", r.name, "status", "error", "msg", r.err)
			} else {
				slog.Debug("Provider response", "provider", r.name, "status", "success", "mime", r.res.MimeType)
			}

			if r.err != nil {
				if responsesCount == totalProvs {
					if bestFallback != nil {
						return bestFallback.res, bestFallback.name, nil
					}
					return nil, "", models.ErrAllProvidersFailed
				}
				continue
			}

			if r.res.MimeType == preferredMime {
				return r.res, r.name, nil
			}

			if bestFallback == nil {
				bestFallback = &r
				timeoutCh = time.After(preferredWait)
				slog.Debug("Candidate found (not mp3). Waiting for better...", "provider", r.name)
			}

			if responsesCount == totalProvs {
				return bestFallback.res, bestFallback.name, nil
			}

		case <-timeoutCh:
			slog.Debug("Timeout waiting for better option. Using fallback.", "provider", bestFallback.name)
			return bestFallback.res, bestFallback.name, nil

		case <-ctx.Done():
			return nil, "", fmt.Errorf("%w: %w", models.ErrAllProvidersFailed, ctx.Err())
		}
	}
}

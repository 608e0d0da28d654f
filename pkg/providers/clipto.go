package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

const cliptoBase = "https://www.clipto.com"

type Clipto struct {
	Client HTTPClient
	// BaseURL overrides https://www.clipto.com (tests).
	BaseURL string
}

func (p *Clipto) Name() string { return "clipto.com" }

func (p *Clipto) GetAudioLink(ctx context.Context, ytURL string) (*models.AudioResult, error) {
	base := p.BaseURL
	if base == "" {
		base = cliptoBase
	}
	pageURL := base + "/ru/media-downloader/youtube-downloader"

	// The API refuses requests without the session cookie set by the page.
	reqInit, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if resp, err := p.Client.Do(reqInit); err == nil {
		cerr := resp.Body.Close()
		if cerr != nil {
			slog.Warn("Failed to close response body", "err", cerr)
		}
	}

	payload := map[string]string{"url": ytURL}
	bodyBytes, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/youtube", bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", base)
	req.Header.Set("Referer", pageURL)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		cerr := Body.Close()
		if cerr != nil {
			slog.Warn("Failed to close response body", "err", cerr)
		}
	}(resp.Body)

	var result struct {
		Success bool   `json:"success"`
		Title   string `json:"title"`
		Medias  []struct {
			Extension string `json:"extension"`
			Url       string `json:"url"`
			Type      string `json:"type"` // "video" or "audio"
			Bitrate   int    `json:"bitrate"`
			MimeType  string `json:"mimeType"`
		} `json:"medias"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, errors.New("clipto api returned success: false")
	}

	var best *models.AudioResult
	for _, m := range result.Medias {
		if m.Type != "audio" || m.Url == "" {
			continue
		}
		if best == nil || m.Bitrate > best.Bitrate {
			mime := m.MimeType
			if i := strings.IndexByte(mime, ';'); i >= 0 {
				mime = mime[:i]
			}
			if mime == "" {
				mime = mimeForExt(m.Extension)
			}
			best = &models.AudioResult{
				Title:     result.Title,
				AudioURL:  m.Url,
				MimeType:  mime,
				Bitrate:   m.Bitrate,
				Extension: m.Extension,
			}
		}
	}

	if best == nil {
		slog.Debug("Clipto returned no audio medias", "medias", len(result.Medias))
		return nil, errors.New("clipto: no audio streams found")
	}
	return best, nil
}

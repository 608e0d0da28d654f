package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

const getSaveEndpoint = "https://api.get-save.com/api/v1/vidinfo"

type GetSave struct {
	Client HTTPClient
	// Endpoint overrides the vidinfo URL (tests).
	Endpoint string
}

func (p *GetSave) Name() string { return "get-save.com" }

func (p *GetSave) GetAudioLink(ctx context.Context, ytURL string) (*models.AudioResult, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = getSaveEndpoint
	}

	payload := map[string]string{"url": ytURL}
	bodyBytes, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

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
		Meta struct {
			Title string `json:"title"`
		} `json:"meta"`
		Sizes []struct {
			Ext        string  `json:"ext"`
			Resolution string  `json:"resolution"`
			Url        string  `json:"url"`
			Abr        float64 `json:"abr"`
			Acodec     string  `json:"acodec"`
		} `json:"sizes"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	// mp3 first since it matches what /stream declares, then the best m4a,
	// then any other audio-only entry.
	var (
		best     *models.AudioResult
		bestRank int
	)
	for _, s := range result.Sizes {
		if s.Resolution != "audio only" || s.Url == "" || s.Acodec == "none" {
			continue
		}
		rank := 1
		switch s.Ext {
		case "mp3":
			rank = 3
		case "m4a":
			rank = 2
		}
		abr := int(s.Abr)
		if best == nil || rank > bestRank || (rank == bestRank && abr > best.Bitrate) {
			best = &models.AudioResult{
				Title:     result.Meta.Title,
				AudioURL:  s.Url,
				MimeType:  mimeForExt(s.Ext),
				Bitrate:   abr,
				Extension: s.Ext,
			}
			bestRank = rank
		}
	}

	if best == nil {
		slog.Debug("GetSave returned no audio-only sizes", "sizes", len(result.Sizes))
		return nil, errors.New("get-save: no audio-only streams found")
	}
	return best, nil
}

func mimeForExt(ext string) string {
	switch ext {
	case "mp3":
		return "audio/mpeg"
	case "m4a", "mp4":
		return "audio/mp4"
	case "webm", "opus":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

const (
	loaderDoBase   = "https://p.savenow.to"
	loaderDoAPIKey = "dfcb6d76f2f6a9894gjkege8a4ab232222"
	loaderDoPolls  = 20
)

// LoaderDo converts the video to mp3 server-side and polls until the file
// is ready.
type LoaderDo struct {
	Client HTTPClient
	// BaseURL overrides https://p.savenow.to (tests).
	BaseURL string
	// PollInterval defaults to 2s.
	PollInterval time.Duration
}

func (p *LoaderDo) Name() string { return "loader.do" }

func (p *LoaderDo) GetAudioLink(ctx context.Context, ytURL string) (*models.AudioResult, error) {
	base := p.BaseURL
	if base == "" {
		base = loaderDoBase
	}
	interval := p.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	params := url.Values{}
	params.Add("copyright", "0")
	params.Add("format", "mp3")
	params.Add("url", ytURL)
	params.Add("api", loaderDoAPIKey)

	initUrl := fmt.Sprintf("%s/ajax/download.php?%s", base, params.Encode())

	req, err := p.newRequest(ctx, initUrl)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Warn("Failed to close response body", "err", err)
		}
	}(resp.Body)

	var initRes struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Title   string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&initRes); err != nil {
		return nil, err
	}
	if !initRes.Success || initRes.ID == "" {
		return nil, errors.New("loader.do init failed")
	}

	progressUrl := fmt.Sprintf("%s/api/progress?id=%s", base, url.QueryEscape(initRes.ID))

	for i := 0; i < loaderDoPolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		reqP, err := p.newRequest(ctx, progressUrl)
		if err != nil {
			return nil, err
		}

		respP, err := p.Client.Do(reqP)
		if err != nil {
			continue
		}

		var progRes struct {
			Success     int    `json:"success"` // 1
			Text        string `json:"text"`    // "Finished"
			DownloadURL string `json:"download_url"`
		}
		jerr := json.NewDecoder(respP.Body).Decode(&progRes)
		if jerr != nil {
			slog.Warn("Failed to decode progress response", "err", jerr)
		}
		cerr := respP.Body.Close()
		if cerr != nil {
			slog.Warn("Failed to close progress response body", "err", cerr)
		}

		if progRes.Success == 1 || progRes.Text == "Finished" {
			if progRes.DownloadURL == "" {
				return nil, errors.New("loader.do finished but url is empty")
			}
			return &models.AudioResult{
				Title:     initRes.Title,
				AudioURL:  progRes.DownloadURL,
				MimeType:  "audio/mpeg",
				Extension: "mp3",
			}, nil
		}
	}

	return nil, errors.New("loader.do timeout")
}

func (p *LoaderDo) newRequest(ctx context.Context, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Origin", "https://loader.do")
	req.Header.Set("Referer", "https://loader.do/")
	return req, nil
}

package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
	"github.com/imbecility/dj-audio-gateway/pkg/utils"
)

// YouTube extracts streams directly from YouTube with kkdai/youtube.
type YouTube struct {
	Client *youtube.Client
}

// NewYouTube builds a YouTube source whose requests go through httpClient.
func NewYouTube(httpClient *http.Client) *YouTube {
	return &YouTube{Client: &youtube.Client{HTTPClient: httpClient}}
}

func (y *YouTube) Name() string { return "youtube" }

func (y *YouTube) Validate(rawURL string) bool {
	return utils.ValidateURL(rawURL)
}

func (y *YouTube) OpenAudioStream(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	video, err := y.Client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch video info: %w", models.ErrUpstream, err)
	}

	format, err := HighestAudio(video.Formats)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", video.ID, err)
	}

	slog.Debug("Audio format selected",
		"video", video.ID,
		"itag", format.ItagNo,
		"mime", format.MimeType,
		"bitrate", format.Bitrate)

	stream, _, err := y.Client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %w", models.ErrUpstream, err)
	}
	return stream, nil
}

// HighestAudio picks the audio-only format with the highest bitrate.
// Muxed audio+video formats are never chosen.
func HighestAudio(formats youtube.FormatList) (*youtube.Format, error) {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") || f.AudioChannels == 0 {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate ||
			(f.Bitrate == best.Bitrate && f.AverageBitrate > best.AverageBitrate) {
			best = f
		}
	}
	if best == nil {
		return nil, models.ErrNoAudioFormat
	}
	return best, nil
}

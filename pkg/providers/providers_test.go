package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideo = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestGetSave(t *testing.T) {
	t.Run("prefers mp3 audio", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, testVideo, body["url"])
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			_, _ = w.Write([]byte(`{
				"meta": {"title": "Never Gonna Give You Up"},
				"sizes": [
					{"ext": "mp4", "resolution": "640x360", "url": "https://cdn/v.mp4", "acodec": "mp4a"},
					{"ext": "m4a", "resolution": "audio only", "url": "https://cdn/a.m4a", "abr": 256, "acodec": "mp4a"},
					{"ext": "mp3", "resolution": "audio only", "url": "https://cdn/a.mp3", "abr": 128, "acodec": "mp3"}
				]}`))
		}))
		defer srv.Close()

		p := &GetSave{Client: http.DefaultClient, Endpoint: srv.URL}
		res, err := p.GetAudioLink(context.Background(), testVideo)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/a.mp3", res.AudioURL)
		assert.Equal(t, "audio/mpeg", res.MimeType)
		assert.Equal(t, "Never Gonna Give You Up", res.Title)
	})

	t.Run("no audio", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"sizes": [{"ext": "mp4", "resolution": "1280x720", "url": "https://cdn/v.mp4"}]}`))
		}))
		defer srv.Close()

		p := &GetSave{Client: http.DefaultClient, Endpoint: srv.URL}
		_, err := p.GetAudioLink(context.Background(), testVideo)
		assert.Error(t, err)
	})
}

func TestClipto(t *testing.T) {
	var sawInit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ru/media-downloader/youtube-downloader":
			sawInit.Store(true)
		case "/api/youtube":
			_, _ = w.Write([]byte(`{
				"success": true,
				"title": "Song",
				"medias": [
					{"type": "video", "extension": "mp4", "url": "https://cdn/v.mp4", "bitrate": 900000},
					{"type": "audio", "extension": "m4a", "url": "https://cdn/low.m4a", "bitrate": 48000},
					{"type": "audio", "extension": "opus", "url": "https://cdn/hi.opus", "bitrate": 160000, "mimeType": "audio/webm; codecs=\"opus\""}
				]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := &Clipto{Client: http.DefaultClient, BaseURL: srv.URL}
	res, err := p.GetAudioLink(context.Background(), testVideo)
	require.NoError(t, err)
	assert.True(t, sawInit.Load())
	assert.Equal(t, "https://cdn/hi.opus", res.AudioURL)
	assert.Equal(t, "audio/webm", res.MimeType)
	assert.Equal(t, 160000, res.Bitrate)
}

func TestCliptoFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	p := &Clipto{Client: http.DefaultClient, BaseURL: srv.URL}
	_, err := p.GetAudioLink(context.Background(), testVideo)
	assert.Error(t, err)
}

func TestLoaderDo(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://loader.do", r.Header.Get("Origin"))
		switch r.URL.Path {
		case "/ajax/download.php":
			assert.Equal(t, "mp3", r.URL.Query().Get("format"))
			assert.Equal(t, testVideo, r.URL.Query().Get("url"))
			_, _ = w.Write([]byte(`{"success": true, "id": "job1", "title": "Song"}`))
		case "/api/progress":
			assert.Equal(t, "job1", r.URL.Query().Get("id"))
			if polls.Add(1) < 2 {
				_, _ = w.Write([]byte(`{"success": 0, "text": "Converting"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success": 1, "text": "Finished", "download_url": "https://cdn/song.mp3"}`))
		}
	}))
	defer srv.Close()

	p := &LoaderDo{Client: http.DefaultClient, BaseURL: srv.URL, PollInterval: time.Millisecond}
	res, err := p.GetAudioLink(context.Background(), testVideo)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/song.mp3", res.AudioURL)
	assert.Equal(t, "audio/mpeg", res.MimeType)
	assert.EqualValues(t, 2, polls.Load())
}

func TestLoaderDoCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ajax/download.php" {
			_, _ = w.Write([]byte(`{"success": true, "id": "job1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": 0}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := &LoaderDo{Client: http.DefaultClient, BaseURL: srv.URL, PollInterval: time.Hour}
	_, err := p.GetAudioLink(ctx, testVideo)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

func TestExtractVideoID(t *testing.T) {
	valid := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":             "dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&list=PL123":      "dQw4w9WgXcQ",
		"http://m.youtube.com/watch?v=dQw4w9WgXcQ":                "dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ&feature=x": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                            "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=42":                       "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":               "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":              "dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ?si=abc":         "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/xxxxxxxxxxx?v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"  https://WWW.YOUTUBE.COM/watch?v=dQw4w9WgXcQ  ":         "dQw4w9WgXcQ",
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, err := ExtractVideoID(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.True(t, ValidateURL(in))
		})
	}

	invalid := []string{
		"",
		"not-a-url",
		"https://youtu.be/abc123",
		"https://www.youtube.com/",
		"https://www.youtube.com/watch?v=",
		"https://www.youtube.com/watch?v=bad!chars!!",
		"https://www.youtube.com/channel/UCabcdefghijk",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"ftp://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/?v=dQw4w9WgXcQ",
		"https://youtu.be//dQw4w9WgXcQ",
		"HTTPS://WWW.YOUTUBE.COM/embed/dQw4w9WgXcQ",
		"https://www.youtube.com//embed/dQw4w9WgXcQ",
	}
	for _, in := range invalid {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := ExtractVideoID(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidURL)
			assert.False(t, ValidateURL(in))
		})
	}
}

func TestWatchURL(t *testing.T) {
	id, err := ExtractVideoID("https://youtu.be/dQw4w9WgXcQ?t=1")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL(id))
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=x"))
	assert.True(t, IsYouTubeURL("HTTPS://YOUTU.BE/abc"))
	assert.True(t, IsYouTubeURL("youtube.com"))
	assert.False(t, IsYouTubeURL(""))
	assert.False(t, IsYouTubeURL("https://example.com/song.mp3"))
	assert.False(t, IsYouTubeURL("not-a-url"))
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "https%3A%2F%2Fyoutu.be%2Fabc123", EncodeURIComponent("https://youtu.be/abc123"))
	assert.Equal(t, "a%20b%2Bc", EncodeURIComponent("a b+c"))

	for _, s := range []string{"https://www.youtube.com/watch?v=x&list=y", "a b+c/ü?#&="} {
		q, err := url.ParseQuery("url=" + EncodeURIComponent(s))
		require.NoError(t, err)
		assert.Equal(t, s, q.Get("url"))
	}
}

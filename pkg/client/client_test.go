package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTLSClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3 audio bytes"))
	}))
	defer srv.Close()

	c, err := NewHttpClient(Options{})
	require.NoError(t, err)

	t.Run("Do", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/track.mp3", nil)
		require.NoError(t, err)
		req.Header.Set("X-Test", "hello")

		resp, err := c.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "hello", resp.Header.Get("X-Echo"))
		assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
		assert.Equal(t, "ID3 audio bytes", string(body))
		assert.Same(t, req, resp.Request)
	})

	t.Run("Standard", func(t *testing.T) {
		resp, err := c.Standard().Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "ID3 audio bytes", string(body))
	})
}

func TestTLSClientSubSecondTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewHttpClient(Options{Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	started := time.Now()
	resp, err := c.Do(req)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.Less(t, time.Since(started), 2*time.Second)
}

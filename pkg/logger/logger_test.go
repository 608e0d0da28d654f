package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, false, false, "json").Info("Streaming audio", "url", "https://youtu.be/x")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "Streaming audio", line["msg"])
		assert.Equal(t, "https://youtu.be/x", line["url"])
	})

	t.Run("debug level gate", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, false, false, "text").Debug("hidden")
		assert.Empty(t, buf.String())

		New(&buf, true, false, "text").Debug("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, false, false, "pretty").Warn("upstream slow", "provider", "clipto.com")
		assert.Contains(t, buf.String(), "upstream slow")
		assert.Contains(t, buf.String(), "clipto.com")
	})
}

// Package media defines the capability the HTTP layer needs from whatever
// knows how to turn a YouTube link into audio bytes.
package media

import (
	"context"
	"io"
)

// Source validates YouTube links and opens audio-only streams for them.
// Implementations must be safe for concurrent use.
type Source interface {
	// Name identifies the backend in logs.
	Name() string
	// Validate reports whether rawURL is a structurally valid video link.
	// It must not perform network I/O.
	Validate(rawURL string) bool
	// OpenAudioStream returns the audio track of rawURL at the highest
	// available audio quality. Cancelling ctx aborts the upstream transfer;
	// the caller must Close the stream.
	OpenAudioStream(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

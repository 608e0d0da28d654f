package models

import "errors"

var (
	// ErrMalformedRequest means a required field or parameter is missing.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrInvalidURL means the URL is present but does not follow the YouTube URL grammar.
	ErrInvalidURL = errors.New("invalid youtube url")
	// ErrUnauthorized means the shared secret was absent or wrong.
	ErrUnauthorized = errors.New("invalid or missing api key")

	ErrUpstream           = errors.New("upstream failure")
	ErrNoAudioFormat      = errors.New("no audio-only format available")
	ErrAllProvidersFailed = errors.New("all providers failed")
)

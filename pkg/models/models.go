package models

// AudioResult is a direct, fetchable audio link returned by a link provider.
type AudioResult struct {
	Title    string
	AudioURL string
	// MimeType is what the provider claims the link serves, e.g. "audio/mpeg".
	MimeType  string
	Bitrate   int
	Extension string
	VideoID   string
}

type ResolveRequest struct {
	URL string `json:"url"`
}

type ResolveResponse struct {
	AudioURL string `json:"audio_url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

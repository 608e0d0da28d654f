package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/imbecility/dj-audio-gateway/pkg/models"
)

var validIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Hosts whose links carry the video ID in the "v" query parameter.
var queryHosts = map[string]bool{
	"youtube.com":        true,
	"www.youtube.com":    true,
	"m.youtube.com":      true,
	"music.youtube.com":  true,
	"gaming.youtube.com": true,
}

// Links that carry the video ID in the path: the first segment on youtu.be,
// the second on youtube.com. Matched against the raw link, case-sensitive.
var pathDomainRe = regexp.MustCompile(`^https?://(youtu\.be/|(www\.)?youtube\.com/(embed|v|shorts|live)/)`)

// ExtractVideoID returns the 11-character video ID of a YouTube link.
//
// Accepted shapes:
//
//	https://www.youtube.com/watch?v=ID
//	https://youtu.be/ID
//	https://www.youtube.com/{embed,v,shorts,live}/ID
//
// Anything longer than 11 characters after the ID start is cut, so
// "youtu.be/ID?t=10" and "watch?v=ID&list=..." both work.
func ExtractVideoID(rawURL string) (string, error) {
	link := strings.TrimSpace(rawURL)
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", models.ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	id := u.Query().Get("v")
	switch {
	case id == "" && pathDomainRe.MatchString(link):
		segments := strings.Split(u.EscapedPath(), "/")
		if host == "youtu.be" {
			id = segments[1]
		} else if len(segments) > 2 {
			id = segments[2]
		}
	case !queryHosts[host]:
		return "", fmt.Errorf("%w: not a youtube domain %q", models.ErrInvalidURL, host)
	}

	if id == "" {
		return "", fmt.Errorf("%w: no video id found", models.ErrInvalidURL)
	}
	if len(id) > 11 {
		id = id[:11]
	}
	if !validIDRe.MatchString(id) {
		return "", fmt.Errorf("%w: malformed video id %q", models.ErrInvalidURL, id)
	}
	return id, nil
}

// ValidateURL reports whether rawURL is a structurally valid YouTube video link.
func ValidateURL(rawURL string) bool {
	_, err := ExtractVideoID(rawURL)
	return err == nil
}

// WatchURL is the canonical watch?v= link for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

package utils

import (
	"net/url"
	"strings"
)

// IsYouTubeURL is a loose membership check: a case-insensitive substring
// match on the two YouTube domain forms. It says nothing about validity.
func IsYouTubeURL(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}

// EncodeURIComponent escapes s for use as a single query value. Spaces
// become %20 rather than '+'.
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

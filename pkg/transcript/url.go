package transcript

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL means no YouTube video id could be resolved from the input.
// No network call is made in that case.
var ErrInvalidURL = errors.New("invalid YouTube URL")

// videoIdPattern matches the fixed-length 11-character video id token.
var videoIdPattern = regexp.MustCompile(`[A-Za-z0-9_-]{11}`)

var knownHosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"music.youtube.com":        true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
	"youtu.be":                 true,
}

// ParseVideoID resolves the canonical video id from a YouTube URL.
// Resolution order: watch?v= query parameter, youtu.be short-link path,
// /embed/ and /shorts/ path patterns, then a fixed-length token scan over
// the path as a last resort.
func ParseVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	if !knownHosts[host] {
		return "", ErrInvalidURL
	}

	// 1. Query parameter lookup (youtube.com/watch?v=ID)
	if v := u.Query().Get("v"); isVideoId(v) {
		return v, nil
	}

	// 2. Short-link path (youtu.be/ID)
	if host == "youtu.be" {
		if id := strings.Trim(u.Path, "/"); isVideoId(id) {
			return id, nil
		}
	}

	// 3. Embed-style path patterns
	for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			id := strings.SplitN(rest, "/", 2)[0]
			if isVideoId(id) {
				return id, nil
			}
		}
	}

	// 4. Fallback: scan the path for an 11-character token
	if id := videoIdPattern.FindString(u.Path); id != "" {
		return id, nil
	}

	return "", ErrInvalidURL
}

func isVideoId(s string) bool {
	return len(s) == 11 && videoIdPattern.MatchString(s)
}

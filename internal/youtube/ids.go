package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URL templates
const (
	WatchURLTemplate = "https://www.youtube.com/watch?v=%s"
	playlistParam    = "list"
)

// videoHosts are the hosts served by the video converter
var videoHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// videoIDPatterns match the supported URL shapes; the first capture group is the id
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:[?&]v=)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`/shorts/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`/v/([a-zA-Z0-9_-]{11})`),
}

// IsVideoURL reports whether source is a video service URL naming a video
// or a playlist
func IsVideoURL(source string) bool {
	if _, ok := ExtractVideoID(source); ok {
		return true
	}
	return PlaylistID(source) != ""
}

// parseVideoHost parses source as an http(s) URL on one of videoHosts
func parseVideoHost(source string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, videoHosts[strings.ToLower(u.Hostname())]
}

// ExtractVideoID returns the 11 character video id of source
func ExtractVideoID(source string) (string, bool) {
	if _, ok := parseVideoHost(source); !ok {
		return "", false
	}
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(source); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// PlaylistID returns the list= query value of source, or ""
func PlaylistID(source string) string {
	u, ok := parseVideoHost(source)
	if !ok {
		return ""
	}
	return u.Query().Get(playlistParam)
}

// WatchURL returns the canonical watch page of a video id
func WatchURL(videoID string) string {
	return fmt.Sprintf(WatchURLTemplate, videoID)
}

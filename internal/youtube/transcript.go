package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

const (
	WatchPageBase       = "https://www.youtube.com"
	playerResponseToken = "ytInitialPlayerResponse"
	kindAutoGenerated   = "asr"
)

// ErrTranscriptUnavailable is returned when a video has no caption track in
// any of the requested languages
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type playerResponse struct {
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// timedText covers both the legacy <transcript><text> and the srv3
// <timedtext><body><p> caption formats
type timedText struct {
	Texts      []cue `xml:"text"`
	Paragraphs []cue `xml:"body>p"`
}

type cue struct {
	Text     string   `xml:",chardata"`
	Segments []string `xml:"s"`
}

func (c cue) String() string {
	text := c.Text
	if strings.TrimSpace(text) == "" && len(c.Segments) > 0 {
		text = strings.Join(c.Segments, "")
	}
	return strings.Join(strings.Fields(html.UnescapeString(text)), " ")
}

// TranscriptClient fetches caption text of a video from its watch page
type TranscriptClient struct {
	client *http.Client
	base   string
	logger zerolog.Logger
}

// NewTranscriptClient creates a transcript client
func NewTranscriptClient(client *http.Client, logger zerolog.Logger) *TranscriptClient {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &TranscriptClient{client: client, base: WatchPageBase, logger: logger}
}

// Fetch returns the transcript of videoID in the first available language of
// languages. Manually created tracks win over auto-generated ones.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string, languages []string) (string, error) {
	tracks, err := c.captionTracks(ctx, videoID, languages)
	if err != nil {
		return "", err
	}

	track, ok := selectTrack(tracks, languages)
	if !ok {
		return "", fmt.Errorf("%w: no caption track for %s in %v", ErrTranscriptUnavailable, videoID, languages)
	}

	c.logger.Debug().
		Str("video_id", videoID).
		Str("language", track.LanguageCode).
		Str("kind", track.Kind).
		Msg("Fetching caption track")

	resp, err := get(ctx, c.client, track.BaseURL, "")
	if err != nil {
		return "", fmt.Errorf("fetching caption track: %w", err)
	}
	defer resp.Body.Close()

	var doc timedText
	dec := xml.NewDecoder(resp.Body)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("decoding caption track: %w", err)
	}

	lines := make([]string, 0, len(doc.Texts)+len(doc.Paragraphs))
	for _, group := range [][]cue{doc.Texts, doc.Paragraphs} {
		for _, cu := range group {
			if s := cu.String(); s != "" {
				lines = append(lines, s)
			}
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: caption track of %s is empty", ErrTranscriptUnavailable, videoID)
	}
	return strings.Join(lines, " "), nil
}

func (c *TranscriptClient) captionTracks(ctx context.Context, videoID string, languages []string) ([]captionTrack, error) {
	pageURL := c.base + "/watch?v=" + videoID
	resp, err := get(ctx, c.client, pageURL, strings.Join(languages, ","))
	if err != nil {
		return nil, fmt.Errorf("fetching watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding watch page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing watch page: %w", err)
	}

	var player *playerResponse
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		p, ok := parsePlayerResponse(s.Text())
		if ok {
			player = p
		}
		return !ok
	})
	if player == nil {
		return nil, fmt.Errorf("%w: player response not found for %s", ErrTranscriptUnavailable, videoID)
	}

	tracks := player.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s has no captions", ErrTranscriptUnavailable, videoID)
	}
	return tracks, nil
}

// parsePlayerResponse decodes the JSON object assigned to ytInitialPlayerResponse
func parsePlayerResponse(script string) (*playerResponse, bool) {
	idx := strings.Index(script, playerResponseToken)
	if idx < 0 {
		return nil, false
	}
	rest := script[idx+len(playerResponseToken):]
	start := strings.IndexByte(rest, '{')
	if start < 0 {
		return nil, false
	}

	var p playerResponse
	if err := json.NewDecoder(strings.NewReader(rest[start:])).Decode(&p); err != nil {
		return nil, false
	}
	return &p, true
}

// selectTrack picks the first language with a manual track, then the first
// language with an auto-generated one
func selectTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	for _, wantAuto := range []bool{false, true} {
		for _, lang := range languages {
			for _, t := range tracks {
				if t.BaseURL == "" || !strings.EqualFold(t.LanguageCode, lang) {
					continue
				}
				if (t.Kind == kindAutoGenerated) == wantAuto {
					return t, true
				}
			}
		}
	}
	return captionTrack{}, false
}

package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/convert"
	"github.com/ytget/markitdown-app/internal/model"
	"github.com/ytget/markitdown-app/internal/proxy"
)

// ErrNoVideoID is returned for video service URLs without a video or playlist id
var ErrNoVideoID = errors.New("no video id in URL")

// MetadataFetcher resolves video display metadata
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (model.VideoMetadata, error)
}

// TranscriptFetcher returns the caption text of a video
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string, languages []string) (string, error)
}

// Converter renders video URLs as Markdown
type Converter struct {
	metadata    MetadataFetcher
	transcripts TranscriptFetcher
	playlists   PlaylistLister
	logger      zerolog.Logger
}

// NewConverter creates a video converter. playlists may be nil, in which case
// playlist-only URLs are rejected.
func NewConverter(metadata MetadataFetcher, transcripts TranscriptFetcher, playlists PlaylistLister, logger zerolog.Logger) *Converter {
	return &Converter{
		metadata:    metadata,
		transcripts: transcripts,
		playlists:   playlists,
		logger:      logger,
	}
}

// Convert implements convert.Converter
func (c *Converter) Convert(ctx context.Context, source string, opts convert.Options) (*model.ConversionResult, error) {
	source = strings.TrimSpace(source)
	ctx = proxy.NewContext(ctx, opts.Proxy)

	videoID, ok := ExtractVideoID(source)
	if !ok {
		if listID := PlaylistID(source); listID != "" && c.playlists != nil {
			return c.convertPlaylist(ctx, source, listID)
		}
		return nil, &convert.ConversionError{Source: source, Err: ErrNoVideoID}
	}

	meta, err := c.metadata.Fetch(ctx, videoID)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("Using placeholder metadata")
		meta = model.PlaceholderMetadata(videoID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	fmt.Fprintf(&b, "- Channel: %s\n", meta.Channel)
	fmt.Fprintf(&b, "- Video ID: %s\n", videoID)
	fmt.Fprintf(&b, "- URL: %s\n", WatchURL(videoID))

	if opts.IncludeTranscript {
		b.WriteString("\n## Transcript\n\n")
		b.WriteString(c.transcript(ctx, videoID, opts.TranscriptLanguages))
		b.WriteString("\n")
	}

	return &model.ConversionResult{
		Markdown: b.String(),
		Source:   source,
		Title:    meta.Title,
	}, nil
}

// transcript returns the transcript text or a comment explaining why there is none
func (c *Converter) transcript(ctx context.Context, videoID string, languages []string) string {
	if len(languages) == 0 {
		languages = []string{model.DefaultTranscriptLanguage}
	}
	if c.transcripts == nil {
		return fmt.Sprintf("<!-- Transcript unavailable: %v -->", ErrTranscriptUnavailable)
	}

	text, err := c.transcripts.Fetch(ctx, videoID, languages)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Strs("languages", languages).Msg("Transcript unavailable")
		return fmt.Sprintf("<!-- Transcript unavailable: %v -->", err)
	}
	return text
}

func (c *Converter) convertPlaylist(ctx context.Context, source, listID string) (*model.ConversionResult, error) {
	entries, err := c.playlists.List(ctx, listID)
	if err != nil {
		return nil, &convert.ConversionError{Source: source, Err: err}
	}

	title := "Playlist " + listID
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for i, e := range entries {
		name := e.Title
		if name == "" {
			name = model.UnknownTitle
		}
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, name, e.URL())
	}
	if len(entries) == 0 {
		b.WriteString("_No videos_\n")
	}

	return &model.ConversionResult{Markdown: b.String(), Source: source, Title: title}, nil
}

package filename

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ytget/markitdown-app/internal/model"
	"github.com/ytget/markitdown-app/internal/youtube"
)

// DateLayout is the date prefix of synthesized names
const DateLayout = "2006-01-02"

// Markdown file extension and default names
const (
	MarkdownExt        = ".md"
	defaultVideoOutput = "youtube_output"
	videoOutputPrefix  = "youtube_"
	fallbackName       = "output"
)

var replacer = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// MetadataSource resolves video metadata for a video id
type MetadataSource interface {
	Fetch(ctx context.Context, videoID string) (model.VideoMetadata, error)
}

// Sanitize replaces characters that are not allowed in file names with '_'
// and normalizes the result to NFC
func Sanitize(name string) string {
	return norm.NFC.String(replacer.Replace(name))
}

// Synthesize returns the suggested file name for source on date.
// Video URLs become {date}_{channel}_{title}.md, everything else
// {date}_{name}.md where name is the base name without extension.
// meta may be nil; lookup failures fall back to placeholders.
func Synthesize(ctx context.Context, source string, date time.Time, meta MetadataSource) string {
	day := date.Format(DateLayout)

	if videoID, ok := youtube.ExtractVideoID(source); ok {
		info := model.PlaceholderMetadata(videoID)
		if meta != nil {
			if m, err := meta.Fetch(ctx, videoID); err == nil {
				info = m
			}
		}
		return Sanitize(fmt.Sprintf("%s_%s_%s", day, info.Channel, info.Title)) + MarkdownExt
	}

	return Sanitize(fmt.Sprintf("%s_%s", day, baseName(source))) + MarkdownExt
}

// EnsureMarkdownExt appends .md unless name already ends with it
// (case-insensitive)
func EnsureMarkdownExt(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(name), MarkdownExt) {
		return name
	}
	return name + MarkdownExt
}

// DefaultOutputPath returns the output path suggested when a source is
// chosen, before any conversion has run
func DefaultOutputPath(source, dir string) string {
	var name string
	switch {
	case youtube.IsVideoURL(source):
		if id, ok := youtube.ExtractVideoID(source); ok {
			name = videoOutputPrefix + id + MarkdownExt
		} else {
			name = defaultVideoOutput + MarkdownExt
		}
	default:
		name = baseName(source) + MarkdownExt
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// baseName returns the last path element of source without its extension.
// Both separators are accepted so URLs and Windows paths behave alike.
func baseName(source string) string {
	s := strings.TrimRight(strings.TrimSpace(source), `/\`)
	if model.IsURL(s) {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
	}
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, filepath.Ext(s))
	if s == "" {
		return fallbackName
	}
	return s
}

package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// DefaultPlaylistTimeout bounds a playlist listing
const DefaultPlaylistTimeout = 60 * time.Second

// PlaylistEntry is a single video of a playlist
type PlaylistEntry struct {
	VideoID string
	Title   string
}

// URL returns the watch page of the entry
func (e PlaylistEntry) URL() string {
	return WatchURL(e.VideoID)
}

// PlaylistLister returns the videos of a playlist
type PlaylistLister interface {
	List(ctx context.Context, playlistID string) ([]PlaylistEntry, error)
}

// YTDLPPlaylistLister lists playlists with the ytdlp library
type YTDLPPlaylistLister struct {
	timeout time.Duration
	limit   int
}

// NewYTDLPPlaylistLister creates a lister returning every playlist item
func NewYTDLPPlaylistLister() *YTDLPPlaylistLister {
	return &YTDLPPlaylistLister{timeout: DefaultPlaylistTimeout}
}

// SetTimeout sets the timeout of a listing
func (l *YTDLPPlaylistLister) SetTimeout(timeout time.Duration) {
	l.timeout = timeout
}

// List fetches the playlist items
func (l *YTDLPPlaylistLister) List(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("empty playlist id")
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, l.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]PlaylistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, PlaylistEntry{VideoID: it.VideoID, Title: it.Title})
	}
	return entries, nil
}

package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/model"
)

// Metadata cache defaults
const (
	OEmbedEndpoint       = "https://www.youtube.com/oembed"
	DefaultMetadataCache = 256
	DefaultMetadataTTL   = time.Hour
)

type oEmbedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// MetadataClient resolves video titles and channels over oEmbed
type MetadataClient struct {
	client   *http.Client
	endpoint string
	cache    *lru.LRU[string, model.VideoMetadata]
	logger   zerolog.Logger
}

// NewMetadataClient creates a client with an expirable LRU cache
func NewMetadataClient(client *http.Client, logger zerolog.Logger) *MetadataClient {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &MetadataClient{
		client:   client,
		endpoint: OEmbedEndpoint,
		cache:    lru.NewLRU[string, model.VideoMetadata](DefaultMetadataCache, nil, DefaultMetadataTTL),
		logger:   logger,
	}
}

// Fetch returns the metadata of videoID. Missing fields are filled with
// placeholders; failed lookups are not cached.
func (c *MetadataClient) Fetch(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	if meta, ok := c.cache.Get(videoID); ok {
		return meta, nil
	}

	q := url.Values{}
	q.Set("url", WatchURL(videoID))
	q.Set("format", "json")
	endpoint := c.endpoint + "?" + q.Encode()

	resp, err := get(ctx, c.client, endpoint, "")
	if err != nil {
		return model.VideoMetadata{}, fmt.Errorf("fetching metadata for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	var body oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.VideoMetadata{}, fmt.Errorf("decoding metadata for %s: %w", videoID, err)
	}

	meta := model.PlaceholderMetadata(videoID)
	if body.Title != "" {
		meta.Title = body.Title
	}
	if body.AuthorName != "" {
		meta.Channel = body.AuthorName
	}

	c.cache.Add(videoID, meta)
	c.logger.Debug().Str("video_id", videoID).Str("title", meta.Title).Msg("Fetched video metadata")
	return meta, nil
}

// FetchOrPlaceholder returns the metadata of videoID, or placeholders when
// the lookup fails
func (c *MetadataClient) FetchOrPlaceholder(ctx context.Context, videoID string) model.VideoMetadata {
	meta, err := c.Fetch(ctx, videoID)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("Video metadata unavailable")
		return model.PlaceholderMetadata(videoID)
	}
	return meta
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/config"
	"github.com/ytget/markitdown-app/internal/convert"
	"github.com/ytget/markitdown-app/internal/youtube"
)

// Config selects and configures the document backend
type Config struct {
	Backend        string // config.BackendMarkitdown or config.BackendContainer
	MarkitdownPath string
	HTTPTimeout    time.Duration
}

// App holds the assembled backends
type App struct {
	Converter convert.Converter
	Metadata  *youtube.MetadataClient
}

// Seams for tests
var (
	newMarkitdownCLI = func(path string, logger zerolog.Logger) (convert.Converter, error) {
		return convert.NewMarkitdownCLI(path, logger)
	}
	detectRuntime = convert.DetectRuntime
)

// New builds the router that sends video URLs to the video converter and
// everything else to the document backend. When the markitdown binary is
// missing the container backend is tried; when neither is available document
// conversions fail with convert.ErrBinaryNotFound while videos still work.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*App, error) {
	client := youtube.NewHTTPClient(cfg.HTTPTimeout)
	metadata := youtube.NewMetadataClient(client, logger)
	video := youtube.NewConverter(
		metadata,
		youtube.NewTranscriptClient(client, logger),
		youtube.NewYTDLPPlaylistLister(),
		logger,
	)

	document, err := documentBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Converter: &convert.Router{
			Document: document,
			Video:    video,
			IsVideo:  youtube.IsVideoURL,
		},
		Metadata: metadata,
	}, nil
}

func documentBackend(ctx context.Context, cfg Config, logger zerolog.Logger) (convert.Converter, error) {
	switch cfg.Backend {
	case config.BackendContainer:
		return containerBackend(ctx, logger)
	case config.BackendMarkitdown, "":
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	cli, err := newMarkitdownCLI(cfg.MarkitdownPath, logger)
	if err == nil {
		return cli, nil
	}
	if !errors.Is(err, convert.ErrBinaryNotFound) {
		return nil, err
	}

	logger.Debug().Err(err).Msg("markitdown binary not found, trying container runtime")
	container, cerr := containerBackend(ctx, logger)
	if cerr != nil {
		logger.Warn().Err(cerr).Msg("No document backend available")
		return nil, nil
	}
	return container, nil
}

func containerBackend(ctx context.Context, logger zerolog.Logger) (convert.Converter, error) {
	rt, err := detectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	c, err := convert.NewContainerConverter(ctx, rt, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("runtime", rt.Name()).Msg("Using container backend")
	return c, nil
}

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/model"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// ImageMarkitdown is the container image holding the markitdown CLI
	ImageMarkitdown = "markitdown:latest"
)

// Runtime is a container runtime able to run the markitdown image
type Runtime interface {
	Name() string
	Available(ctx context.Context) bool
	ImageExists(ctx context.Context, image string) error
	Run(ctx context.Context, image string, env, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// runtime implements Runtime for docker and podman. They differ only in
// binary name and the subcommand used to check image existence.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

// Run starts a throwaway container. Environment entries become -e flags
// because the container does not inherit the host environment.
func (r *runtime) Run(ctx context.Context, image string, env, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	runArgs := []string{"run", "--rm", "-i"}
	for _, kv := range env {
		runArgs = append(runArgs, "-e", kv)
	}
	runArgs = append(runArgs, image)
	runArgs = append(runArgs, args...)

	err := r.exec.Run(ctx, command{
		Name:   r.bin,
		Args:   runArgs,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: exec}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: exec}
}

// DetectRuntime tries docker first and falls back to podman
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, defaultExec)
}

func detectRuntime(ctx context.Context, exec executor) (Runtime, error) {
	for _, rt := range []*runtime{newDockerRuntime(exec), newPodmanRuntime(exec)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational", binDocker, binPodman)
}

// ContainerConverter converts sources by running the markitdown image.
// Local files are piped through stdin with their extension as a hint, URLs
// are passed as an argument.
type ContainerConverter struct {
	runtime Runtime
	image   string
	logger  zerolog.Logger
}

// NewContainerConverter verifies the markitdown image is available in rt
func NewContainerConverter(ctx context.Context, rt Runtime, logger zerolog.Logger) (*ContainerConverter, error) {
	if err := rt.ImageExists(ctx, ImageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: ImageMarkitdown, logger: logger}, nil
}

// Convert runs the markitdown image on source
func (c *ContainerConverter) Convert(ctx context.Context, source string, opts Options) (*model.ConversionResult, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	var args []string
	if opts.EnablePlugins {
		args = append(args, flagUsePlugins)
	}

	var stdin io.Reader
	if model.IsURL(source) {
		args = append(args, source)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", source, err)
		}
		defer f.Close()
		stdin = f
		if ext := strings.TrimPrefix(filepath.Ext(source), "."); ext != "" {
			args = append(args, flagExtension, ext)
		}
	}

	c.logger.Debug().
		Str("runtime", c.runtime.Name()).
		Str("source", source).
		Bool("plugins", opts.EnablePlugins).
		Msg("Running markitdown container")

	var stdout, stderr bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, opts.Env, args, stdin, &stdout, &stderr); err != nil {
		return nil, &ConversionError{Source: source, Err: err, Stderr: stderr.String()}
	}
	if strings.TrimSpace(stdout.String()) == "" {
		return nil, &ConversionError{Source: source, Err: ErrEmptyOutput, Stderr: stderr.String()}
	}

	return &model.ConversionResult{Markdown: stdout.String(), Source: source}, nil
}

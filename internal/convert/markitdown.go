package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/model"
)

const (
	binaryName     = "markitdown"
	flagUsePlugins = "--use-plugins"
	flagExtension  = "-x"
)

// commonBinaryPaths are probed when markitdown is not on PATH
var commonBinaryPaths = []string{
	"/usr/local/bin/markitdown",
	"/usr/bin/markitdown",
	"/opt/homebrew/bin/markitdown",
	"/opt/bin/markitdown",
}

// MarkitdownCLI converts sources by running the markitdown binary
type MarkitdownCLI struct {
	binaryPath string
	exec       executor
	logger     zerolog.Logger
}

// NewMarkitdownCLI locates the markitdown binary. An explicit path takes
// precedence over PATH and the common install locations.
func NewMarkitdownCLI(path string, logger zerolog.Logger) (*MarkitdownCLI, error) {
	return newMarkitdownCLI(path, defaultExec, logger)
}

func newMarkitdownCLI(path string, exec executor, logger zerolog.Logger) (*MarkitdownCLI, error) {
	bin, err := findBinary(path, exec)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("binary", bin).Msg("Using markitdown binary")
	return &MarkitdownCLI{binaryPath: bin, exec: exec, logger: logger}, nil
}

// BinaryPath returns the resolved markitdown binary
func (m *MarkitdownCLI) BinaryPath() string {
	return m.binaryPath
}

// Convert runs markitdown on source and returns its standard output
func (m *MarkitdownCLI) Convert(ctx context.Context, source string, opts Options) (*model.ConversionResult, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	args := make([]string, 0, 2)
	if opts.EnablePlugins {
		args = append(args, flagUsePlugins)
	}
	args = append(args, source)

	m.logger.Debug().
		Str("source", source).
		Bool("plugins", opts.EnablePlugins).
		Int("env", len(opts.Env)).
		Msg("Running markitdown")

	var stdout, stderr bytes.Buffer
	err := m.exec.Run(ctx, command{
		Name:   m.binaryPath,
		Args:   args,
		Env:    opts.Env,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return nil, &ConversionError{Source: source, Err: err, Stderr: stderr.String()}
	}
	if strings.TrimSpace(stdout.String()) == "" {
		return nil, &ConversionError{Source: source, Err: ErrEmptyOutput, Stderr: stderr.String()}
	}

	return &model.ConversionResult{
		Markdown: stdout.String(),
		Source:   source,
	}, nil
}

func findBinary(path string, exec executor) (string, error) {
	if path != "" {
		if err := exec.Stat(path); err != nil {
			return "", fmt.Errorf("%w at %s: %v", ErrBinaryNotFound, path, err)
		}
		return path, nil
	}

	if p, err := exec.LookPath(binaryName); err == nil {
		return p, nil
	}

	for _, p := range commonBinaryPaths {
		if exec.Stat(p) == nil {
			return p, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".local", "bin", binaryName)
		if exec.Stat(p) == nil {
			return p, nil
		}
	}

	return "", ErrBinaryNotFound
}

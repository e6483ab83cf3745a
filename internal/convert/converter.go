package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytget/markitdown-app/internal/model"
)

// Converter turns a local file path or URL into Markdown
type Converter interface {
	Convert(ctx context.Context, source string, opts Options) (*model.ConversionResult, error)
}

// ConverterFunc adapts a function to Converter
type ConverterFunc func(ctx context.Context, source string, opts Options) (*model.ConversionResult, error)

// Convert calls f
func (f ConverterFunc) Convert(ctx context.Context, source string, opts Options) (*model.ConversionResult, error) {
	return f(ctx, source, opts)
}

// Options are passed to a converter for a single call
type Options struct {
	EnablePlugins       bool
	TranscriptLanguages []string
	IncludeTranscript   bool
	// Env holds KEY=value entries added to the environment of external tools
	Env   []string
	Proxy model.ProxyConfig
}

// Common converter errors
var (
	ErrEmptyOutput    = errors.New("converter produced empty output")
	ErrBinaryNotFound = errors.New("markitdown binary not found")
	ErrEmptySource    = errors.New("source is empty")
)

// ConversionError wraps a failed conversion together with the diagnostic
// output of the external tool
type ConversionError struct {
	Source string
	Err    error
	Stderr string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion of %s failed: %v", e.Source, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + lastLine(stderr)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Detail returns the error chain followed by the full stderr output
func (e *ConversionError) Detail() string {
	var b strings.Builder
	for err := e.Err; err != nil; err = errors.Unwrap(err) {
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString("\nstderr:\n")
		b.WriteString(stderr)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

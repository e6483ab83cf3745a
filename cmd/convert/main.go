// Command convert converts a document or URL to Markdown.
//
//	convert <file> [-o OUTPUT] [-p] [-l]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/markitdown-app/internal/bootstrap"
	"github.com/ytget/markitdown-app/internal/config"
	"github.com/ytget/markitdown-app/internal/convert"
	"github.com/ytget/markitdown-app/internal/job"
	"github.com/ytget/markitdown-app/internal/model"
	"github.com/ytget/markitdown-app/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

var errMissingSource = errors.New("no file or URL given")

// converterFactory builds the converter once the configuration is loaded
type converterFactory func(ctx context.Context, cfg *config.CLIConfig, logger zerolog.Logger) (convert.Converter, error)

func defaultConverter(ctx context.Context, cfg *config.CLIConfig, logger zerolog.Logger) (convert.Converter, error) {
	app, err := bootstrap.New(ctx, bootstrap.Config{
		Backend:        cfg.Backend,
		MarkitdownPath: cfg.MarkitdownPath,
	}, logger)
	if err != nil {
		return nil, err
	}
	return app.Converter, nil
}

func main() {
	if err := newRootCmd(defaultConverter).Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	output      string
	plugins     bool
	listFormats bool
	configFile  string
	logLevel    string
}

func newRootCmd(newConverter converterFactory) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "convert [file]",
		Short:         "Convert a file or URL to Markdown",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listFormats {
				return convert.PrintSupportedFormats(cmd.OutOrStdout())
			}
			if len(args) == 0 {
				_ = cmd.Usage()
				return errMissingSource
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, newConverter)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output file path (default: print to stdout)")
	flags.BoolVarP(&opts.plugins, "plugins", "p", false, "enable converter plugins")
	flags.BoolVarP(&opts.listFormats, "list-formats", "l", false, "list supported formats and exit")
	flags.StringVar(&opts.configFile, "config", "", "config file (default: ./convert.yaml or ~/.config/markitdown-app/convert.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return root
}

func run(ctx context.Context, stdout, stderr io.Writer, source string, opts options, newConverter converterFactory) error {
	if !model.IsURL(source) {
		if _, err := os.Stat(source); err != nil {
			return fmt.Errorf("file '%s' not found", source)
		}
	}

	v := viper.New()
	cfg, err := config.LoadCLI(v, opts.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := config.NewLogger(stderr, level)
	settings := config.NewSettings(config.NewViperPreferences(v))

	converter, err := newConverter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := convertOnce(converter, model.ConversionRequest{
		Source:             source,
		EnablePlugins:      opts.plugins,
		Proxy:              settings.ProxyConfig(),
		TranscriptLanguage: cfg.TranscriptLanguage,
		IncludeTranscript:  settings.GetIncludeTranscript(),
	}, logger)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = io.WriteString(stdout, result.Markdown)
		return err
	}
	if err := platform.WriteMarkdown(opts.output, source, result.Markdown); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Saved the result to %s\n", opts.output)
	return err
}

// convertOnce runs a single job and waits for its outcome
func convertOnce(converter convert.Converter, req model.ConversionRequest, logger zerolog.Logger) (*model.ConversionResult, error) {
	var (
		result  *model.ConversionResult
		failure *model.ConversionFailure
	)

	runner := job.NewService(converter, job.WithLogger(logger))
	runner.SetCallbacks(job.Callbacks{
		OnComplete: func(r model.ConversionResult) { result = &r },
		OnError:    func(f model.ConversionFailure) { failure = &f },
	})

	if _, err := runner.Submit(req); err != nil {
		return nil, err
	}
	runner.Wait()

	if failure != nil {
		logger.Debug().Str("detail", failure.Detail).Msg("Conversion failed")
		return nil, errors.New(failure.Message)
	}
	if result == nil {
		return nil, convert.ErrEmptyOutput
	}
	return result, nil
}

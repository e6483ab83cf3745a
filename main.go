package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/markitdown-app/internal/bootstrap"
	"github.com/ytget/markitdown-app/internal/config"
	"github.com/ytget/markitdown-app/internal/job"
	"github.com/ytget/markitdown-app/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.markitdown-app"
	AppName = "MarkItDown Converter"

	WindowWidth  = 900
	WindowHeight = 700

	// LogLevelEnv overrides the log level of the desktop application
	LogLevelEnv = "MARKITDOWN_LOG_LEVEL"
)

func main() {
	logger := config.NewLogger(os.Stderr, os.Getenv(LogLevelEnv))
	logger.Info().Str("version", version).Msgf("%s starting", AppName)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp.Preferences())

	backends, err := bootstrap.New(context.Background(), bootstrap.Config{Backend: config.DefaultBackend}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up conversion backends")
	}

	runner := job.NewService(backends.Converter,
		job.WithDispatcher(fyne.Do),
		job.WithLogger(logger),
	)

	ui.NewRootUI(myWindow, runner, settings, backends.Metadata, logger)

	myWindow.ShowAndRun()
}

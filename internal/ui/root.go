package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/config"
	"github.com/ytget/markitdown-app/internal/filename"
	"github.com/ytget/markitdown-app/internal/job"
	"github.com/ytget/markitdown-app/internal/model"
	"github.com/ytget/markitdown-app/internal/platform"
	"github.com/ytget/markitdown-app/internal/proxy"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	runner       job.Runner
	settings     *config.Settings
	metadata     filename.MetadataSource
	localization *Localization
	logger       zerolog.Logger
	now          func() time.Time

	sourceLabel     *widget.Label
	sourceEntry     *widget.Entry
	browseBtn       *widget.Button
	languageLabel   *widget.Label
	languageSelect  *widget.Select
	pluginsCheck    *widget.Check
	saveCheck       *widget.Check
	autoNameCheck   *widget.Check
	outputLabel     *widget.Label
	outputDirEntry  *widget.Entry
	outputBrowseBtn *widget.Button
	convertBtn      *widget.Button
	previewLabel    *widget.Label
	preview         *widget.Entry
	statusLabel     *widget.Label
}

// NewRootUI creates and initializes the main UI. metadata resolves video
// titles for synthesized file names and may be nil.
func NewRootUI(window fyne.Window, runner job.Runner, settings *config.Settings, metadata filename.MetadataSource, logger zerolog.Logger) *RootUI {
	ui := &RootUI{
		window:       window,
		runner:       runner,
		settings:     settings,
		metadata:     metadata,
		localization: NewLocalization(),
		logger:       logger,
		now:          time.Now,
	}

	window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.runner.SetCallbacks(job.Callbacks{
		OnComplete: ui.onComplete,
		OnError:    ui.onError,
		OnFinished: ui.onFinished,
	})

	ui.setupUI()
	ui.loadSettings()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	t := ui.localization.GetText

	ui.createMenu()

	ui.sourceLabel = widget.NewLabel(t(KeySource))
	ui.sourceEntry = widget.NewEntry()
	ui.sourceEntry.SetPlaceHolder(t(KeySourcePlaceholder))
	ui.sourceEntry.OnSubmitted = func(string) {
		ui.onConvertClick()
	}
	ui.browseBtn = widget.NewButton(t(KeyBrowse), ui.onBrowseSource)
	sourceRow := container.NewBorder(nil, nil, nil, ui.browseBtn, ui.sourceEntry)

	ui.languageLabel = widget.NewLabel(t(KeyTranscriptLanguage))
	ui.languageSelect = widget.NewSelect(TranscriptLanguages, nil)
	ui.languageSelect.SetSelected(model.DefaultTranscriptLanguage)
	languageRow := container.NewHBox(ui.languageLabel, ui.languageSelect)

	ui.pluginsCheck = widget.NewCheck(t(KeyEnablePlugins), nil)
	ui.saveCheck = widget.NewCheck(t(KeySaveOutput), func(bool) { ui.toggleOutputControls() })
	ui.autoNameCheck = widget.NewCheck(t(KeyAutoFilename), nil)
	ui.autoNameCheck.SetChecked(true)
	optionsRow := container.NewHBox(ui.pluginsCheck, ui.saveCheck, ui.autoNameCheck)

	ui.outputLabel = widget.NewLabel(t(KeyOutputFolder))
	ui.outputDirEntry = widget.NewEntry()
	ui.outputDirEntry.SetPlaceHolder(platform.DefaultOutputDir())
	ui.outputBrowseBtn = widget.NewButton(IconFolder+" "+t(KeyBrowseFolder), ui.onBrowseOutputDir)
	outputRow := container.NewBorder(nil, nil, ui.outputLabel, ui.outputBrowseBtn, ui.outputDirEntry)

	ui.convertBtn = widget.NewButton(IconPlay+" "+t(KeyConvert), ui.onConvertClick)
	ui.convertBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.previewLabel = widget.NewLabel(t(KeyPreview))
	ui.preview = widget.NewMultiLineEntry()
	ui.preview.Wrapping = fyne.TextWrapWord
	ui.preview.SetMinRowsVisible(PreviewRows)

	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	top := container.NewVBox(
		ui.sourceLabel,
		sourceRow,
		languageRow,
		optionsRow,
		outputRow,
		container.NewBorder(nil, nil, settingsBtn, nil, ui.convertBtn),
		widget.NewSeparator(),
		ui.previewLabel,
	)

	ui.window.SetContent(container.NewBorder(top, ui.statusLabel, nil, nil, ui.preview))

	ui.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		ui.onDropped(uris)
	})
	ui.window.SetCloseIntercept(ui.onCloseRequested)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange switches the interface language
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText

	ui.window.SetTitle(t(KeyAppTitle))
	ui.sourceLabel.SetText(t(KeySource))
	ui.sourceEntry.SetPlaceHolder(t(KeySourcePlaceholder))
	ui.browseBtn.SetText(t(KeyBrowse))
	ui.languageLabel.SetText(t(KeyTranscriptLanguage))
	ui.pluginsCheck.Text = t(KeyEnablePlugins)
	ui.pluginsCheck.Refresh()
	ui.saveCheck.Text = t(KeySaveOutput)
	ui.saveCheck.Refresh()
	ui.autoNameCheck.Text = t(KeyAutoFilename)
	ui.autoNameCheck.Refresh()
	ui.outputLabel.SetText(t(KeyOutputFolder))
	ui.outputBrowseBtn.SetText(IconFolder + " " + t(KeyBrowseFolder))
	ui.previewLabel.SetText(t(KeyPreview))
	ui.setRunning(ui.runner.Active())
}

// loadSettings applies the stored defaults to the form
func (ui *RootUI) loadSettings() {
	ui.pluginsCheck.SetChecked(ui.settings.GetDefaultPluginsEnabled())

	if dir := ui.settings.GetDefaultOutputDir(); isDir(dir) {
		ui.outputDirEntry.SetText(dir)
	}

	// Saving is opt-in per session
	ui.saveCheck.SetChecked(false)
	ui.toggleOutputControls()
}

// toggleOutputControls enables the output controls only while saving is on
func (ui *RootUI) toggleOutputControls() {
	if ui.saveCheck.Checked {
		ui.outputDirEntry.Enable()
		ui.outputBrowseBtn.Enable()
		ui.autoNameCheck.Enable()
	} else {
		ui.outputDirEntry.Disable()
		ui.outputBrowseBtn.Disable()
		ui.autoNameCheck.Disable()
	}
}

// setRunning reflects whether a conversion is in flight
func (ui *RootUI) setRunning(running bool) {
	if running {
		ui.convertBtn.SetText(ui.localization.GetText(KeyConverting))
		ui.convertBtn.Disable()
		return
	}
	ui.convertBtn.SetText(IconPlay + " " + ui.localization.GetText(KeyConvert))
	ui.convertBtn.Enable()
}

func (ui *RootUI) setStatus(message string) {
	ui.statusLabel.SetText(message)
}

// onBrowseSource picks a local file to convert
func (ui *RootUI) onBrowseSource() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		ui.onSourceChosen(path)
	}, ui.window)
}

// onDropped accepts a single dropped local file
func (ui *RootUI) onDropped(uris []fyne.URI) {
	if len(uris) != 1 || uris[0].Scheme() != "file" {
		return
	}
	ui.onSourceChosen(uris[0].Path())
}

// onSourceChosen fills the source entry and, without a configured default,
// points the output folder at the source's directory
func (ui *RootUI) onSourceChosen(path string) {
	ui.sourceEntry.SetText(path)

	if model.IsURL(path) || ui.settings.GetDefaultOutputDir() != "" {
		return
	}
	ui.outputDirEntry.SetText(filepath.Dir(path))
}

// onBrowseOutputDir picks the output folder and remembers it as the default
func (ui *RootUI) onBrowseOutputDir() {
	if !ui.saveCheck.Checked {
		return
	}
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.onOutputDirChosen(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onOutputDirChosen(dir string) {
	ui.outputDirEntry.SetText(dir)
	ui.settings.SetDefaultOutputDir(dir)
	ui.settings.Flush()
}

// outputDir returns the folder the next result is saved to
func (ui *RootUI) outputDir() string {
	if dir := strings.TrimSpace(ui.outputDirEntry.Text); dir != "" {
		return dir
	}
	configured := ui.settings.GetDefaultOutputDir()
	if !isDir(configured) {
		configured = ""
	}
	return platform.ResolveOutputDir(configured)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window, ui.localization, func() {
		ui.loadSettings()
		ui.setStatus(ui.localization.GetText(KeySettingsSaved))
	}).Show()
}

// request builds the conversion request from the form and the stored settings
func (ui *RootUI) request(source string) model.ConversionRequest {
	return model.ConversionRequest{
		Source:             source,
		EnablePlugins:      ui.pluginsCheck.Checked,
		Proxy:              ui.settings.ProxyConfig(),
		TranscriptLanguage: ui.languageSelect.Selected,
		IncludeTranscript:  ui.settings.GetIncludeTranscript(),
	}
}

// onConvertClick submits the current source to the runner
func (ui *RootUI) onConvertClick() {
	t := ui.localization.GetText

	source := strings.TrimSpace(ui.sourceEntry.Text)
	if source == "" {
		dialog.ShowInformation(t(KeyError), t(KeyEnterSource), ui.window)
		return
	}

	j, err := ui.runner.Submit(ui.request(source))
	switch {
	case errors.Is(err, job.ErrBusy):
		dialog.ShowInformation(t(KeyInfo), t(KeyAlreadyRunning), ui.window)
		return
	case errors.Is(err, job.ErrEmptySource):
		dialog.ShowInformation(t(KeyError), t(KeyEnterSource), ui.window)
		return
	case err != nil:
		ui.logger.Error().Err(err).Str("source", source).Msg("Failed to submit conversion")
		dialog.ShowError(err, ui.window)
		return
	}

	ui.logger.Info().Str("job_id", j.ID).Str("source", source).Msg("Conversion submitted")
	ui.setRunning(true)
	ui.preview.SetText("")
	ui.setStatus(ui.localization.Format(KeyConversionStarted, source))
}

// onComplete shows the result and starts the save flow when enabled
func (ui *RootUI) onComplete(result model.ConversionResult) {
	ui.preview.SetText(platform.WithSourceHeader(result.Source, result.Markdown))

	if !ui.saveCheck.Checked {
		ui.setStatus(ui.localization.GetText(KeyConversionPreviewOnly))
		return
	}

	dir := ui.outputDir()
	if !ui.autoNameCheck.Checked {
		ui.confirmFilename(result, dir, filepath.Base(filename.DefaultOutputPath(result.Source, "")))
		return
	}

	// Metadata lookup runs off the UI thread
	cfg := ui.settings.ProxyConfig()
	go func() {
		ctx, cancel := context.WithTimeout(proxy.NewContext(context.Background(), cfg), FilenameLookupTimeout)
		defer cancel()
		name := filename.Synthesize(ctx, result.Source, ui.now(), ui.metadata)
		fyne.Do(func() {
			ui.confirmFilename(result, dir, name)
		})
	}()
}

// confirmFilename lets the user edit the suggested file name before saving
func (ui *RootUI) confirmFilename(result model.ConversionResult, dir, suggested string) {
	t := ui.localization.GetText

	entry := widget.NewEntry()
	entry.SetText(suggested)
	content := container.NewVBox(widget.NewLabel(t(KeyConfirmFilenameHint)), entry)

	d := dialog.NewCustomConfirm(t(KeyConfirmFilename), t(KeySave), t(KeyCancel), content, func(confirmed bool) {
		ui.onFilenameConfirmed(result, dir, entry.Text, confirmed)
	}, ui.window)
	d.Resize(fyne.NewSize(FilenameDialogWidth, d.MinSize().Height))
	d.Show()
}

func (ui *RootUI) onFilenameConfirmed(result model.ConversionResult, dir, name string, confirmed bool) {
	name = strings.TrimSpace(name)
	if !confirmed || name == "" {
		ui.setStatus(ui.localization.GetText(KeySaveCancelled))
		return
	}
	_ = ui.saveResult(result, filepath.Join(dir, filename.EnsureMarkdownExt(filename.Sanitize(name))))
}

// saveResult writes the result with its source header to path
func (ui *RootUI) saveResult(result model.ConversionResult, path string) error {
	t := ui.localization.GetText

	if err := platform.WriteMarkdown(path, result.Source, result.Markdown); err != nil {
		ui.logger.Error().Err(err).Str("path", path).Msg("Failed to save result")
		ui.setStatus(t(KeySaveError))
		dialog.ShowError(err, ui.window)
		return err
	}

	ui.logger.Info().Str("path", path).Msg("Result saved")
	ui.outputDirEntry.SetText(filepath.Dir(path))
	ui.setStatus(t(KeyConversionCompleted))
	ui.showSaved(path)
	return nil
}

// showSaved confirms the save and offers to open the file or its folder
func (ui *RootUI) showSaved(path string) {
	t := ui.localization.GetText

	message := widget.NewLabel(ui.localization.Format(KeySavedTo, path))
	message.Wrapping = fyne.TextWrapWord

	revealBtn := widget.NewButton(IconFolder+" "+t(KeyReveal), func() {
		ui.openPath(platform.RevealInFileManager, path)
	})
	openBtn := widget.NewButton(IconFile+" "+t(KeyOpenFile), func() {
		ui.openPath(platform.OpenFileWithDefaultApp, path)
	})

	content := container.NewVBox(message, container.NewHBox(revealBtn, openBtn))
	dialog.NewCustom(t(KeySaveCompleted), t(KeyClose), content, ui.window).Show()
}

func (ui *RootUI) openPath(open func(string) error, path string) {
	if err := open(path); err != nil {
		ui.logger.Error().Err(err).Str("path", path).Msg("Failed to open saved file")
		showToast(ui.window.Canvas(), ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error())
	}
}

// onError shows the failure report
func (ui *RootUI) onError(failure model.ConversionFailure) {
	ui.logger.Warn().Str("source", failure.Source).Str("error", failure.Message).Msg("Conversion failed")
	ui.setStatus(ui.localization.GetText(KeyConversionError))
	NewErrorDialog(ui.window, ui.localization, failure).Show()
}

// onFinished re-enables the form once the runner is idle
func (ui *RootUI) onFinished(j model.ConversionJob) {
	ui.logger.Debug().Str("job_id", j.ID).Str("status", j.Status.String()).Msg("Job finished")
	ui.setRunning(false)
}

// onCloseRequested asks before abandoning a running conversion
func (ui *RootUI) onCloseRequested() {
	if !ui.runner.Active() {
		ui.window.Close()
		return
	}

	t := ui.localization.GetText
	dialog.ShowConfirm(t(KeyConfirm), t(KeyConfirmQuit), ui.onCloseConfirmed, ui.window)
}

// onCloseConfirmed cancels the running job and closes the window once the
// runner has wound down
func (ui *RootUI) onCloseConfirmed(confirmed bool) {
	if !confirmed {
		return
	}
	ui.runner.Cancel()
	go func() {
		ui.runner.Wait()
		fyne.Do(ui.window.Close)
	}()
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// showToast displays a short message over the canvas and hides it after PopUpAutoHide
func showToast(canvas fyne.Canvas, message string) {
	popUp := widget.NewPopUp(widget.NewLabel(message), canvas)
	popUp.Show()
	driver := fyne.CurrentApp().Driver()
	time.AfterFunc(PopUpAutoHide, func() {
		driver.DoFromGoroutine(popUp.Hide, false)
	})
}

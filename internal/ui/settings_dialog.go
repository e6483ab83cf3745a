package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/markitdown-app/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	outputDirEntry    *widget.Entry
	pluginsCheck      *widget.Check
	transcriptCheck   *widget.Check
	useProxyCheck     *widget.Check
	proxyHostEntry    *widget.Entry
	proxyPortEntry    *widget.Entry
	authRequiredCheck *widget.Check
	proxyUserEntry    *widget.Entry
	proxyPassEntry    *widget.Entry
	skipSSLCheck      *widget.Check
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values have been written to the settings store.
func NewSettingsDialog(settings *config.Settings, window fyne.Window, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		window:       window,
		localization: localization,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.outputDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.outputDirEntry)

	sd.pluginsCheck = widget.NewCheck(t(KeyDefaultPlugins), nil)
	sd.transcriptCheck = widget.NewCheck(t(KeyIncludeTranscript), nil)

	sd.proxyHostEntry = widget.NewEntry()
	sd.proxyHostEntry.SetPlaceHolder("proxy.example.com")
	sd.proxyPortEntry = widget.NewEntry()
	sd.proxyPortEntry.SetPlaceHolder("8080")
	sd.proxyUserEntry = widget.NewEntry()
	sd.proxyPassEntry = widget.NewPasswordEntry()
	sd.authRequiredCheck = widget.NewCheck(t(KeyProxyAuthRequired), func(bool) { sd.updateProxyControls() })
	sd.skipSSLCheck = widget.NewCheck(t(KeySkipSSLVerify), nil)
	sd.useProxyCheck = widget.NewCheck(t(KeyUseProxy), func(bool) { sd.updateProxyControls() })

	proxyForm := widget.NewForm(
		widget.NewFormItem(t(KeyProxyHost), sd.proxyHostEntry),
		widget.NewFormItem(t(KeyProxyPort), sd.proxyPortEntry),
		widget.NewFormItem(t(KeyProxyUser), sd.proxyUserEntry),
		widget.NewFormItem(t(KeyProxyPass), sd.proxyPassEntry),
	)

	form := container.NewVBox(
		widget.NewLabel(t(KeyGeneralSection)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyDefaultOutputDir)),
		outputDirRow,
		sd.pluginsCheck,
		sd.transcriptCheck,

		widget.NewSeparator(),
		widget.NewLabel(t(KeyProxySection)),
		widget.NewSeparator(),

		sd.useProxyCheck,
		proxyForm,
		sd.authRequiredCheck,
		sd.skipSSLCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.outputDirEntry.SetText(sd.settings.GetDefaultOutputDir())
	sd.pluginsCheck.SetChecked(sd.settings.GetDefaultPluginsEnabled())
	sd.transcriptCheck.SetChecked(sd.settings.GetIncludeTranscript())

	p := sd.settings.GetProxySettings()
	sd.useProxyCheck.SetChecked(p.UseProxy)
	sd.proxyHostEntry.SetText(p.Host)
	sd.proxyPortEntry.SetText(p.Port)
	sd.authRequiredCheck.SetChecked(p.AuthRequired)
	sd.proxyUserEntry.SetText(p.User)
	sd.proxyPassEntry.SetText(p.Password)
	sd.skipSSLCheck.SetChecked(p.SkipSSLVerify)

	sd.updateProxyControls()
}

// updateProxyControls enables the proxy fields only while the proxy is in use
func (sd *SettingsDialog) updateProxyControls() {
	if sd.useProxyCheck.Checked {
		sd.proxyHostEntry.Enable()
		sd.proxyPortEntry.Enable()
		sd.authRequiredCheck.Enable()
		sd.skipSSLCheck.Enable()
	} else {
		sd.proxyHostEntry.Disable()
		sd.proxyPortEntry.Disable()
		sd.authRequiredCheck.Disable()
		sd.skipSSLCheck.Disable()
	}

	if sd.useProxyCheck.Checked && sd.authRequiredCheck.Checked {
		sd.proxyUserEntry.Enable()
		sd.proxyPassEntry.Enable()
	} else {
		sd.proxyUserEntry.Disable()
		sd.proxyPassEntry.Disable()
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave stages every field and commits them together, or drops them when
// the dialog was cancelled
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		sd.settings.Discard()
		return
	}

	sd.settings.SetDefaultOutputDir(sd.outputDirEntry.Text)
	sd.settings.SetDefaultPluginsEnabled(sd.pluginsCheck.Checked)
	sd.settings.SetIncludeTranscript(sd.transcriptCheck.Checked)
	sd.settings.SetProxySettings(config.ProxySettings{
		UseProxy:      sd.useProxyCheck.Checked,
		Host:          sd.proxyHostEntry.Text,
		Port:          sd.proxyPortEntry.Text,
		AuthRequired:  sd.authRequiredCheck.Checked,
		User:          sd.proxyUserEntry.Text,
		Password:      sd.proxyPassEntry.Text,
		SkipSSLVerify: sd.skipSSLCheck.Checked,
	})
	sd.settings.Flush()

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

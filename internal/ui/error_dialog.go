package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/markitdown-app/internal/model"
)

// ErrorDialog shows a conversion failure with its full report and a button
// that copies the report to the clipboard
type ErrorDialog struct {
	dialog  *dialog.CustomDialog
	window  fyne.Window
	detail  *widget.Entry
	copyBtn *widget.Button
	report  string
}

// NewErrorDialog creates the dialog for failure
func NewErrorDialog(window fyne.Window, localization *Localization, failure model.ConversionFailure) *ErrorDialog {
	t := localization.GetText
	ed := &ErrorDialog{window: window, report: failure.Report()}

	message := widget.NewLabel(t(KeyConversionErrorHint) + "\n" + failure.Message)
	message.Wrapping = fyne.TextWrapWord

	ed.detail = widget.NewMultiLineEntry()
	ed.detail.TextStyle = fyne.TextStyle{Monospace: true}
	ed.detail.Wrapping = fyne.TextWrapOff
	ed.detail.SetMinRowsVisible(ErrorDetailRows)
	ed.detail.SetText(ed.report)
	ed.detail.Disable()

	ed.copyBtn = widget.NewButton(IconCopy+" "+t(KeyCopyError), func() {
		ed.copyReport()
		showToast(window.Canvas(), t(KeyCopied))
	})

	content := container.NewBorder(message, container.NewHBox(ed.copyBtn), nil, nil, ed.detail)

	ed.dialog = dialog.NewCustom(t(KeyConversionError), t(KeyClose), content, window)
	ed.dialog.Resize(fyne.NewSize(ErrorDialogWidth, ErrorDialogHeight))
	return ed
}

// Show displays the dialog
func (ed *ErrorDialog) Show() {
	ed.dialog.Show()
}

// copyReport places the failure report on the clipboard
func (ed *ErrorDialog) copyReport() {
	fyne.CurrentApp().Clipboard().SetContent(ed.report)
}

// Package ui contains the Fyne-based desktop user interface for the converter.
// It wires the source form, preview and dialogs to the conversion job runner
// and the settings store. All UI strings are localized via Localization.
package ui

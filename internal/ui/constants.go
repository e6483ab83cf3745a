package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconFile     = "📄"
	IconCopy     = "📋"
	IconPlay     = "▶"
)

// Transcript languages offered in the language selector
var TranscriptLanguages = []string{"ja", "en"}

// Layout sizing
const (
	PreviewRows = 16

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 520

	ErrorDialogWidth  float32 = 640
	ErrorDialogHeight float32 = 420
	ErrorDetailRows           = 12

	FilenameDialogWidth float32 = 480
)

// Popup behavior
const (
	PopUpAutoHide = 1500 * time.Millisecond
)

// Timeouts
const (
	FilenameLookupTimeout = 15 * time.Second
)

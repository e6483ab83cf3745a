package ui

import "fmt"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Supported UI languages
const (
	LanguageJapanese = "ja"
	LanguageEnglish  = "en"
	DefaultLanguage  = LanguageJapanese
)

// Text keys for localization
const (
	KeyAppTitle              = "app_title"
	KeyFile                  = "file"
	KeyLanguage              = "language"
	KeySettings              = "settings"
	KeyQuit                  = "quit"
	KeySource                = "source"
	KeySourcePlaceholder     = "source_placeholder"
	KeyTranscriptLanguage    = "transcript_language"
	KeyBrowse                = "browse"
	KeySelectSource          = "select_source"
	KeySaveOutput            = "save_output"
	KeyAutoFilename          = "auto_filename"
	KeyOutputFolder          = "output_folder"
	KeyBrowseFolder          = "browse_folder"
	KeyEnablePlugins         = "enable_plugins"
	KeyConvert               = "convert"
	KeyConverting            = "converting"
	KeyPreview               = "preview"
	KeyError                 = "error"
	KeyInfo                  = "info"
	KeyEnterSource           = "enter_source"
	KeyAlreadyRunning        = "already_running"
	KeyConfirmFilename       = "confirm_filename"
	KeyConfirmFilenameHint   = "confirm_filename_hint"
	KeySaveCompleted         = "save_completed"
	KeySavedTo               = "saved_to"
	KeySaveError             = "save_error"
	KeySaveCancelled         = "save_cancelled"
	KeyReveal                = "reveal"
	KeyOpenFile              = "open_file"
	KeyErrorOpeningFile      = "error_opening_file"
	KeyConversionError       = "conversion_error"
	KeyConversionErrorHint   = "conversion_error_hint"
	KeyCopyError             = "copy_error"
	KeyCopied                = "copied"
	KeyClose                 = "close"
	KeyConfirm               = "confirm"
	KeyConfirmQuit           = "confirm_quit"
	KeyConversionStarted     = "conversion_started"
	KeyConversionCompleted   = "conversion_completed"
	KeyConversionPreviewOnly = "conversion_preview_only"
	KeySave                  = "save"
	KeyCancel                = "cancel"
	KeySettingsSaved         = "settings_saved"
	KeyGeneralSection        = "general_section"
	KeyProxySection          = "proxy_section"
	KeyDefaultOutputDir      = "default_output_dir"
	KeyDefaultPlugins        = "default_plugins"
	KeyIncludeTranscript     = "include_transcript"
	KeyUseProxy              = "use_proxy"
	KeyProxyHost             = "proxy_host"
	KeyProxyPort             = "proxy_port"
	KeyProxyAuthRequired     = "proxy_auth_required"
	KeyProxyUser             = "proxy_user"
	KeyProxyPass             = "proxy_pass"
	KeySkipSSLVerify         = "skip_ssl_verify"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown languages are ignored.
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to the default language
	if texts, exists := l.texts[DefaultLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Format returns the localized text for key formatted with args
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LanguageJapanese: "日本語",
		LanguageEnglish:  "English",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts[LanguageJapanese] = map[string]string{
		KeyAppTitle:              "MarkItDown Converter",
		KeyFile:                  "ファイル",
		KeyLanguage:              "言語",
		KeySettings:              "設定",
		KeyQuit:                  "終了",
		KeySource:                "変換するファイル または URL:",
		KeySourcePlaceholder:     "ファイルパスまたは URL を入力、またはファイルをドロップ",
		KeyTranscriptLanguage:    "YouTube文字起こしの言語:",
		KeyBrowse:                "参照...",
		KeySelectSource:          "変換するファイルを選択",
		KeySaveOutput:            "出力ファイルを保存する",
		KeyAutoFilename:          "ファイル名を自動生成する",
		KeyOutputFolder:          "保存先フォルダ:",
		KeyBrowseFolder:          "保存先...",
		KeyEnablePlugins:         "プラグインを有効にする",
		KeyConvert:               "変換開始",
		KeyConverting:            "変換中...",
		KeyPreview:               "Markdown プレビュー:",
		KeyError:                 "エラー",
		KeyInfo:                  "情報",
		KeyEnterSource:           "変換するファイルまたはURLを入力してください。",
		KeyAlreadyRunning:        "現在、別の変換処理が実行中です。",
		KeyConfirmFilename:       "ファイル名の確認",
		KeyConfirmFilenameHint:   "生成されたファイル名を確認または修正してください:",
		KeySaveCompleted:         "保存完了",
		KeySavedTo:               "変換結果を %s に保存しました。",
		KeySaveError:             "保存エラー",
		KeySaveCancelled:         "保存がキャンセルされました",
		KeyReveal:                "フォルダを表示",
		KeyOpenFile:              "ファイルを開く",
		KeyErrorOpeningFile:      "ファイルを開けませんでした",
		KeyConversionError:       "変換エラー",
		KeyConversionErrorHint:   "変換中にエラーが発生しました:",
		KeyCopyError:             "エラー情報をコピー",
		KeyCopied:                "クリップボードにコピーしました",
		KeyClose:                 "閉じる",
		KeyConfirm:               "確認",
		KeyConfirmQuit:           "変換処理が実行中です。中断しますか？",
		KeyConversionStarted:     "変換開始: %s",
		KeyConversionCompleted:   "変換完了",
		KeyConversionPreviewOnly: "変換完了 (プレビューのみ)",
		KeySave:                  "保存",
		KeyCancel:                "キャンセル",
		KeySettingsSaved:         "設定を保存しました",
		KeyGeneralSection:        "一般設定",
		KeyProxySection:          "プロキシ設定",
		KeyDefaultOutputDir:      "デフォルトの保存先フォルダ:",
		KeyDefaultPlugins:        "デフォルトでプラグインを有効にする",
		KeyIncludeTranscript:     "文字起こしテキストを含める",
		KeyUseProxy:              "プロキシを使用する",
		KeyProxyHost:             "ホスト:",
		KeyProxyPort:             "ポート:",
		KeyProxyAuthRequired:     "認証が必要",
		KeyProxyUser:             "ユーザー名:",
		KeyProxyPass:             "パスワード:",
		KeySkipSSLVerify:         "SSL証明書の検証をスキップ (安全でない接続を許可)",
	}

	l.texts[LanguageEnglish] = map[string]string{
		KeyAppTitle:              "MarkItDown Converter",
		KeyFile:                  "File",
		KeyLanguage:              "Language",
		KeySettings:              "Settings",
		KeyQuit:                  "Quit",
		KeySource:                "File or URL to convert:",
		KeySourcePlaceholder:     "Enter a file path or URL, or drop a file",
		KeyTranscriptLanguage:    "YouTube transcript language:",
		KeyBrowse:                "Browse...",
		KeySelectSource:          "Select a file to convert",
		KeySaveOutput:            "Save output file",
		KeyAutoFilename:          "Generate file name automatically",
		KeyOutputFolder:          "Output folder:",
		KeyBrowseFolder:          "Folder...",
		KeyEnablePlugins:         "Enable plugins",
		KeyConvert:               "Convert",
		KeyConverting:            "Converting...",
		KeyPreview:               "Markdown preview:",
		KeyError:                 "Error",
		KeyInfo:                  "Information",
		KeyEnterSource:           "Please enter a file or URL to convert.",
		KeyAlreadyRunning:        "Another conversion is already running.",
		KeyConfirmFilename:       "Confirm file name",
		KeyConfirmFilenameHint:   "Check or edit the generated file name:",
		KeySaveCompleted:         "Saved",
		KeySavedTo:               "Saved the result to %s.",
		KeySaveError:             "Save error",
		KeySaveCancelled:         "Save cancelled",
		KeyReveal:                "Show in folder",
		KeyOpenFile:              "Open file",
		KeyErrorOpeningFile:      "Error opening file",
		KeyConversionError:       "Conversion error",
		KeyConversionErrorHint:   "An error occurred during conversion:",
		KeyCopyError:             "Copy error details",
		KeyCopied:                "Copied to clipboard",
		KeyClose:                 "Close",
		KeyConfirm:               "Confirm",
		KeyConfirmQuit:           "A conversion is running. Abort it?",
		KeyConversionStarted:     "Converting: %s",
		KeyConversionCompleted:   "Conversion completed",
		KeyConversionPreviewOnly: "Conversion completed (preview only)",
		KeySave:                  "Save",
		KeyCancel:                "Cancel",
		KeySettingsSaved:         "Settings saved",
		KeyGeneralSection:        "General",
		KeyProxySection:          "Proxy",
		KeyDefaultOutputDir:      "Default output folder:",
		KeyDefaultPlugins:        "Enable plugins by default",
		KeyIncludeTranscript:     "Include transcript text",
		KeyUseProxy:              "Use a proxy",
		KeyProxyHost:             "Host:",
		KeyProxyPort:             "Port:",
		KeyProxyAuthRequired:     "Authentication required",
		KeyProxyUser:             "User:",
		KeyProxyPass:             "Password:",
		KeySkipSSLVerify:         "Skip SSL certificate verification (allow insecure connections)",
	}
}

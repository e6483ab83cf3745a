package model

import (
	"net"
	"net/url"
	"strings"
	"time"
)

// Placeholder metadata used when a video lookup fails
const (
	UnknownTitle   = "Unknown Title"
	UnknownChannel = "Unknown Channel"
)

// Default transcript language for video sources
const DefaultTranscriptLanguage = "ja"

// ConversionRequest describes one conversion submitted to the job runner
type ConversionRequest struct {
	ID                 string
	Source             string // local file path or http(s) URL
	EnablePlugins      bool
	Proxy              ProxyConfig
	TranscriptLanguage string // "ja" or "en"
	IncludeTranscript  bool
	SubmittedAt        time.Time
}

// TranscriptLanguages returns the language preference list passed to the converter
func (r ConversionRequest) TranscriptLanguages() []string {
	if r.TranscriptLanguage == "" {
		return []string{DefaultTranscriptLanguage}
	}
	return []string{r.TranscriptLanguage}
}

// ConversionResult is the Markdown produced for a source
type ConversionResult struct {
	Markdown string
	Source   string
	Title    string // optional, filled by converters that know the document title
}

// ConversionFailure is the terminal outcome of a job whose converter failed
type ConversionFailure struct {
	Source  string
	Message string
	Detail  string // error chain, external stderr, or a recovered stack
}

// Report returns the text shown in the error dialog and copied to the clipboard
func (f ConversionFailure) Report() string {
	if f.Detail == "" {
		return f.Message
	}
	var b strings.Builder
	b.WriteString(f.Message)
	b.WriteString("\n\n--- Details ---\n")
	b.WriteString(f.Detail)
	return b.String()
}

// ConversionJob is a snapshot of a job's lifecycle
type ConversionJob struct {
	ID         string
	Source     string
	Status     JobStatus
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the job ran, or zero while it is still running
func (j ConversionJob) Duration() time.Duration {
	if j.FinishedAt.IsZero() || j.StartedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// ProxyConfig is the outbound proxy used during a single conversion
type ProxyConfig struct {
	Enabled       bool
	Host          string
	Port          string
	User          string
	Password      string
	SkipTLSVerify bool
}

// HasCredentials reports whether both user and password are set
func (p ProxyConfig) HasCredentials() bool {
	return p.User != "" && p.Password != ""
}

// Usable reports whether the proxy is enabled and addressable
func (p ProxyConfig) Usable() bool {
	return p.Enabled && strings.TrimSpace(p.Host) != "" && strings.TrimSpace(p.Port) != ""
}

// URL returns the proxy URL with embedded credentials when present.
// It returns nil when the proxy is not usable.
func (p ProxyConfig) URL() *url.URL {
	if !p.Usable() {
		return nil
	}
	u := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(strings.TrimSpace(p.Host), strings.TrimSpace(p.Port)),
	}
	if p.HasCredentials() {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u
}

// String returns the proxy URL as text, or "" when the proxy is not usable
func (p ProxyConfig) String() string {
	u := p.URL()
	if u == nil {
		return ""
	}
	return u.String()
}

// Redacted returns the proxy URL with the password masked, for logging
func (p ProxyConfig) Redacted() string {
	u := p.URL()
	if u == nil {
		return ""
	}
	return u.Redacted()
}

// VideoMetadata is the display information of a video source
type VideoMetadata struct {
	Title   string
	Channel string
	VideoID string
}

// PlaceholderMetadata returns metadata used when the lookup fails
func PlaceholderMetadata(videoID string) VideoMetadata {
	return VideoMetadata{
		Title:   UnknownTitle,
		Channel: UnknownChannel,
		VideoID: videoID,
	}
}

// IsURL reports whether the source is an http(s) URL rather than a local path
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

package config

import (
	"strings"
	"sync"

	"github.com/ytget/markitdown-app/internal/model"
)

// Settings keys, shared by the GUI preferences and the CLI config file
const (
	KeyDefaultOutputDir      = "defaultOutputDir"
	KeyDefaultPluginsEnabled = "defaultPluginsEnabled"
	KeyUseProxy              = "useProxy"
	KeyProxyHost             = "proxyHost"
	KeyProxyPort             = "proxyPort"
	KeyProxyAuthRequired     = "proxyAuthRequired"
	KeyProxyUser             = "proxyUser"
	KeyProxyPass             = "proxyPass"
	KeySkipSSLVerify         = "skipSSLVerify"
	KeyIncludeTranscript     = "includeTranscript"
)

// Default values
const (
	DefaultOutputDir         = ""
	DefaultPluginsEnabled    = false
	DefaultIncludeTranscript = true
)

// Preferences is the persisted key/value table backing Settings.
// fyne.Preferences satisfies it.
type Preferences interface {
	BoolWithFallback(key string, fallback bool) bool
	StringWithFallback(key, fallback string) string
	SetBool(key string, value bool)
	SetString(key, value string)
}

// Settings manages application configuration. Setters stage values that only
// reach the backing preferences on Flush.
type Settings struct {
	prefs  Preferences
	mu     sync.Mutex
	staged map[string]any
	order  []string
}

// NewSettings creates a new settings manager
func NewSettings(prefs Preferences) *Settings {
	return &Settings{
		prefs:  prefs,
		staged: make(map[string]any),
	}
}

func (s *Settings) stage(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staged[key]; !ok {
		s.order = append(s.order, key)
	}
	s.staged[key] = value
}

func (s *Settings) getString(key, fallback string) string {
	s.mu.Lock()
	v, ok := s.staged[key]
	s.mu.Unlock()
	if ok {
		if str, isStr := v.(string); isStr {
			return str
		}
	}
	return s.prefs.StringWithFallback(key, fallback)
}

func (s *Settings) getBool(key string, fallback bool) bool {
	s.mu.Lock()
	v, ok := s.staged[key]
	s.mu.Unlock()
	if ok {
		if b, isBool := v.(bool); isBool {
			return b
		}
	}
	return s.prefs.BoolWithFallback(key, fallback)
}

// String returns the value of key, or fallback if unset
func (s *Settings) String(key, fallback string) string {
	return s.getString(key, fallback)
}

// Bool returns the value of key, or fallback if unset
func (s *Settings) Bool(key string, fallback bool) bool {
	return s.getBool(key, fallback)
}

// SetString stages a string value
func (s *Settings) SetString(key, value string) {
	s.stage(key, value)
}

// SetBool stages a boolean value
func (s *Settings) SetBool(key string, value bool) {
	s.stage(key, value)
}

// Pending reports whether there are staged values not yet flushed
func (s *Settings) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged) > 0
}

// Flush writes staged values to the backing preferences in the order they were set
func (s *Settings) Flush() {
	s.mu.Lock()
	staged, order := s.staged, s.order
	s.staged = make(map[string]any)
	s.order = nil
	s.mu.Unlock()

	for _, key := range order {
		switch v := staged[key].(type) {
		case string:
			s.prefs.SetString(key, v)
		case bool:
			s.prefs.SetBool(key, v)
		}
	}
}

// Discard drops staged values
func (s *Settings) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[string]any)
	s.order = nil
}

// GetDefaultOutputDir returns the configured default output directory
func (s *Settings) GetDefaultOutputDir() string {
	return strings.TrimSpace(s.getString(KeyDefaultOutputDir, DefaultOutputDir))
}

// SetDefaultOutputDir sets the default output directory
func (s *Settings) SetDefaultOutputDir(dir string) {
	s.SetString(KeyDefaultOutputDir, strings.TrimSpace(dir))
}

// GetDefaultPluginsEnabled returns whether plugins are enabled by default
func (s *Settings) GetDefaultPluginsEnabled() bool {
	return s.getBool(KeyDefaultPluginsEnabled, DefaultPluginsEnabled)
}

// SetDefaultPluginsEnabled sets whether plugins are enabled by default
func (s *Settings) SetDefaultPluginsEnabled(enabled bool) {
	s.SetBool(KeyDefaultPluginsEnabled, enabled)
}

// GetIncludeTranscript returns whether video transcripts are included
func (s *Settings) GetIncludeTranscript() bool {
	return s.getBool(KeyIncludeTranscript, DefaultIncludeTranscript)
}

// SetIncludeTranscript sets whether video transcripts are included
func (s *Settings) SetIncludeTranscript(include bool) {
	s.SetBool(KeyIncludeTranscript, include)
}

// GetUseProxy returns whether the proxy is enabled
func (s *Settings) GetUseProxy() bool {
	return s.getBool(KeyUseProxy, false)
}

// GetProxyHost returns the proxy host
func (s *Settings) GetProxyHost() string {
	return strings.TrimSpace(s.getString(KeyProxyHost, ""))
}

// GetProxyPort returns the proxy port
func (s *Settings) GetProxyPort() string {
	return strings.TrimSpace(s.getString(KeyProxyPort, ""))
}

// GetProxyAuthRequired returns whether proxy credentials are sent
func (s *Settings) GetProxyAuthRequired() bool {
	return s.getBool(KeyProxyAuthRequired, false)
}

// GetProxyUser returns the proxy user name
func (s *Settings) GetProxyUser() string {
	return s.getString(KeyProxyUser, "")
}

// GetProxyPass returns the proxy password
func (s *Settings) GetProxyPass() string {
	return s.getString(KeyProxyPass, "")
}

// GetSkipSSLVerify returns whether TLS verification is skipped behind the proxy
func (s *Settings) GetSkipSSLVerify() bool {
	return s.getBool(KeySkipSSLVerify, false)
}

// ProxySettings is the editable form of the proxy section
type ProxySettings struct {
	UseProxy      bool
	Host          string
	Port          string
	AuthRequired  bool
	User          string
	Password      string
	SkipSSLVerify bool
}

// GetProxySettings returns the proxy section as stored
func (s *Settings) GetProxySettings() ProxySettings {
	return ProxySettings{
		UseProxy:      s.GetUseProxy(),
		Host:          s.GetProxyHost(),
		Port:          s.GetProxyPort(),
		AuthRequired:  s.GetProxyAuthRequired(),
		User:          s.GetProxyUser(),
		Password:      s.GetProxyPass(),
		SkipSSLVerify: s.GetSkipSSLVerify(),
	}
}

// SetProxySettings stages the whole proxy section
func (s *Settings) SetProxySettings(p ProxySettings) {
	s.SetBool(KeyUseProxy, p.UseProxy)
	s.SetString(KeyProxyHost, strings.TrimSpace(p.Host))
	s.SetString(KeyProxyPort, strings.TrimSpace(p.Port))
	s.SetBool(KeyProxyAuthRequired, p.AuthRequired)
	s.SetString(KeyProxyUser, p.User)
	s.SetString(KeyProxyPass, p.Password)
	s.SetBool(KeySkipSSLVerify, p.SkipSSLVerify)
}

// ProxyConfig assembles the proxy used for the next conversion.
// Credentials are only included when authentication is required.
func (s *Settings) ProxyConfig() model.ProxyConfig {
	if !s.GetUseProxy() {
		return model.ProxyConfig{}
	}

	cfg := model.ProxyConfig{
		Enabled:       true,
		Host:          s.GetProxyHost(),
		Port:          s.GetProxyPort(),
		SkipTLSVerify: s.GetSkipSSLVerify(),
	}
	if s.GetProxyAuthRequired() {
		cfg.User = s.GetProxyUser()
		cfg.Password = s.GetProxyPass()
	}
	return cfg
}

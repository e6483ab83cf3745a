package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ytget/markitdown-app/internal/model"
)

// CLI configuration defaults
const (
	ConfigName         = "convert"
	ConfigType         = "yaml"
	EnvPrefix          = "MARKITDOWN"
	BackendMarkitdown  = "markitdown"
	BackendContainer   = "container"
	DefaultBackend     = BackendMarkitdown
	DefaultCLILogLevel = "warn"
	ConfigDirName      = "markitdown-app"
	KeyBackend         = "backend"
	KeyMarkitdownPath  = "markitdown_path"
	KeyLogLevel        = "log_level"
	KeyTranscriptLang  = "transcript_language"
)

// CLIConfig holds the command-line converter configuration
type CLIConfig struct {
	Backend            string `mapstructure:"backend"`
	MarkitdownPath     string `mapstructure:"markitdown_path"`
	LogLevel           string `mapstructure:"log_level"`
	TranscriptLanguage string `mapstructure:"transcript_language"`
}

// LoadCLI reads the config file (explicit path, ./convert.yaml, or
// ~/.config/markitdown-app/convert.yaml) and MARKITDOWN_* environment variables.
// A missing config file is not an error.
func LoadCLI(v *viper.Viper, cfgFile string) (*CLIConfig, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigDirName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyMarkitdownPath, "")
	v.SetDefault(KeyLogLevel, DefaultCLILogLevel)
	v.SetDefault(KeyTranscriptLang, model.DefaultTranscriptLanguage)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	return &cfg, nil
}

// ViperPreferences adapts a viper instance to Preferences so the CLI reads
// the same settings keys as the GUI from its config file and environment.
type ViperPreferences struct {
	v *viper.Viper
}

// NewViperPreferences wraps v
func NewViperPreferences(v *viper.Viper) *ViperPreferences {
	return &ViperPreferences{v: v}
}

// BoolWithFallback returns the boolean at key, or fallback if unset
func (p *ViperPreferences) BoolWithFallback(key string, fallback bool) bool {
	if !p.v.IsSet(key) {
		return fallback
	}
	return p.v.GetBool(key)
}

// StringWithFallback returns the string at key, or fallback if unset
func (p *ViperPreferences) StringWithFallback(key, fallback string) string {
	if !p.v.IsSet(key) {
		return fallback
	}
	return p.v.GetString(key)
}

// SetBool overrides key for the lifetime of the process
func (p *ViperPreferences) SetBool(key string, value bool) {
	p.v.Set(key, value)
}

// SetString overrides key for the lifetime of the process
func (p *ViperPreferences) SetString(key, value string) {
	p.v.Set(key, value)
}

// Package config provides configuration types, defaults, and loading for jetuml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"jetuml/export"
)

// EnvPrefix prefixes environment overrides, e.g. JETUML_LOG_LEVEL.
const EnvPrefix = "JETUML"

// LocalFile is the project config file looked up in the working directory.
const LocalFile = ".jetuml.yaml"

// Config holds all jetuml configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Export  ExportConfig  `mapstructure:"export"`
	History HistoryConfig `mapstructure:"history"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn or error
	File  string `mapstructure:"file"`  // Empty logs to stderr
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Format string `mapstructure:"format"`
}

// HistoryConfig bounds the undo history of an edit session.
type HistoryConfig struct {
	Size int `mapstructure:"size"`
}

// WatchConfig controls file watching in the viewer.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Log:     LogConfig{Level: "warn"},
		Export:  ExportConfig{Format: string(export.FormatASCII)},
		History: HistoryConfig{Size: 50},
		Watch:   WatchConfig{Debounce: 100 * time.Millisecond},
	}
}

// SetDefaults registers every key with its default so environment
// overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("export.format", d.Export.Format)
	v.SetDefault("history.size", d.History.Size)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Setup prepares v for Load. An explicit path wins; otherwise the local file
// is used if present, then ~/.config/jetuml/config.yaml.
func Setup(v *viper.Viper, path string) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		return
	}
	if _, err := os.Stat(LocalFile); err == nil {
		v.SetConfigFile(LocalFile)
		return
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "jetuml"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// Load reads the configured file, if any, and returns the validated result.
// A missing file found by search is not an error; a missing explicit file is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed in the types.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.History.Size <= 0 {
		return fmt.Errorf("history.size: must be positive, got %d", c.History.Size)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce: must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Level returns the slog level named by log.level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level: unknown level %q (want debug, info, warn or error)", c.Log.Level)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
  file: /tmp/jetuml.log
export:
  format: mermaid
history:
  size: 10
watch:
  debounce: 250ms
`)
	v := viper.New()
	Setup(v, path)
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/jetuml.log", cfg.Log.File)
	require.Equal(t, "mermaid", cfg.Export.Format)
	require.Equal(t, 10, cfg.History.Size)
	require.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "export:\n  format: dot\n")
	v := viper.New()
	Setup(v, path)
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "dot", cfg.Export.Format)
	require.Equal(t, Defaults().History, cfg.History)
	require.Equal(t, Defaults().Log.Level, cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JETUML_LOG_LEVEL", "error")
	t.Setenv("JETUML_HISTORY_SIZE", "7")
	v := viper.New()
	Setup(v, writeFile(t, "log:\n  level: info\n"))
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
	require.Equal(t, 7, cfg.History.Size)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	Setup(v, filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"level", "log:\n  level: loud\n", "log.level"},
		{"format", "export:\n  format: svg\n", "export.format"},
		{"history", "history:\n  size: 0\n", "history.size"},
		{"debounce", "watch:\n  debounce: -1s\n", "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			Setup(v, writeFile(t, tt.body))
			_, err := Load(v)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := Config{Log: LogConfig{Level: in}}.Level()
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Defaults()
	want.Export.Format = "plantuml"
	want.Watch.Debounce = 2 * time.Second
	require.NoError(t, Write(path, want, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "debounce: 2s")
	require.NotContains(t, string(data), "file:", "empty log file should be omitted")

	v := viper.New()
	Setup(v, path)
	got, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := writeFile(t, "log:\n  level: info\n")
	err := Write(path, Defaults(), false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
	require.NoError(t, Write(path, Defaults(), true))
}

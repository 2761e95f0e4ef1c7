package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileLayout mirrors Config in the shape written to disk. Durations are
// written in their string form so the file reads like hand-written config.
type fileLayout struct {
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"log"`
	Export struct {
		Format string `yaml:"format"`
	} `yaml:"export"`
	History struct {
		Size int `yaml:"size"`
	} `yaml:"history"`
	Watch struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"watch"`
}

// Marshal renders cfg as a YAML config file.
func Marshal(cfg Config) ([]byte, error) {
	var f fileLayout
	f.Log.Level = cfg.Log.Level
	f.Log.File = cfg.Log.File
	f.Export.Format = cfg.Export.Format
	f.History.Size = cfg.History.Size
	f.Watch.Debounce = cfg.Watch.Debounce.String()

	var doc yaml.Node
	if err := doc.Encode(&f); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	doc.HeadComment = "jetuml configuration"

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

// Write saves cfg to path, creating the parent directory. An existing file
// is left alone unless overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file name inside the user config directory.
const FileName = "car-price-dataset.yml"

// DefaultPath returns the settings file location in the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load returns the defaults overlaid with the values present in the YAML
// file at path. A missing file yields the defaults. Keys with a value of the
// wrong type are ignored.
func Load(path string) (Settings, error) {
	settings := defaultSettings
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if v, ok := m["preview_rows"]; ok {
		if vi, oki := v.(int); oki && vi >= 0 {
			settings.PreviewRows = vi
		}
	}
	if v, ok := m["print_info_on_load"]; ok {
		if vb, okb := v.(bool); okb {
			settings.PrintInfoOnLoad = vb
		}
	}
	if v, ok := m["enable_load_cache"]; ok {
		if vb, okb := v.(bool); okb {
			settings.EnableLoadCache = vb
		}
	}
	if v, ok := m["cache_size_limit_mb"]; ok {
		if vi, oki := v.(int); oki {
			settings.CacheSizeLimitMB = vi
		}
	}
	if v, ok := m["log_level"]; ok {
		if vs, oks := v.(string); oks {
			settings.LogLevel = vs
		}
	}
	return settings, settings.Validate()
}

// Save writes the settings to path as YAML, creating parent directories.
func (s Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must not be negative, got %d", s.PreviewRows)
	}
	if s.CacheSizeLimitMB <= 0 {
		return fmt.Errorf("cache_size_limit_mb must be positive, got %d", s.CacheSizeLimitMB)
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// CacheSizeBytes returns the cache limit in bytes.
func (s Settings) CacheSizeBytes() int64 {
	return int64(s.CacheSizeLimitMB) * 1024 * 1024
}

// SlogLevel returns LogLevel as a slog.Level, defaulting to info.
func (s Settings) SlogLevel() slog.Level {
	level, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
}

// Package dataset loads a tabular file into memory and prepares it for model
// training: numeric columns are narrowed to the smallest width that holds
// their values, string columns can be label-encoded, and the table can be
// split into features and a label column.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/GongJr0/Car-Price-Perdiction/app/cache"
	"github.com/GongJr0/Car-Price-Perdiction/app/dataprep"
	"github.com/GongJr0/Car-Price-Perdiction/app/fileloader"
	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
	"github.com/GongJr0/Car-Price-Perdiction/app/settings"
)

// Dataset owns one loaded table and the features/label views derived from
// it. A Dataset is not safe for concurrent use.
type Dataset struct {
	id       string
	path     string
	format   fileloader.Format
	data     *frame.Frame
	features *frame.Frame // nil until SplitData
	label    *frame.Column

	encodings map[string]*dataprep.Encoding
	settings  settings.Settings
	logger    *slog.Logger
}

type config struct {
	settings     settings.Settings
	settingsFile string
	out          io.Writer
	logger       *slog.Logger
	cache        *cache.TableCache
}

// Option configures New.
type Option func(*config)

// WithSettings replaces the default settings.
func WithSettings(s settings.Settings) Option {
	return func(c *config) { c.settings = s }
}

// WithSettingsFile loads settings from a YAML file when the dataset is
// created. Keys missing from the file keep their defaults, and a missing file
// yields the defaults. See settings.DefaultPath for the per-user location.
func WithSettingsFile(path string) Option {
	return func(c *config) { c.settingsFile = path }
}

// WithOutput sets where the load summary is printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithLogger sets the structured logger. Defaults to a JSON logger on stderr
// at the LogLevel of the settings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithCache sets the table cache loads go through while the EnableLoadCache
// setting is on. Share one cache between datasets to reuse parsed tables.
func WithCache(tc *cache.TableCache) Option {
	return func(c *config) { c.cache = tc }
}

// NewLoadCache returns a table cache sized by the CacheSizeLimitMB setting,
// for use with WithCache.
func NewLoadCache(s settings.Settings, logger *slog.Logger) *cache.TableCache {
	tc := cache.NewTableCache(s.CacheSizeBytes())
	if logger != nil {
		tc.SetLogger(logger)
	}
	return tc
}

// New loads the file at path. The reader is chosen from the text after the
// last "." of path; see the fileloader package for the supported formats. An
// unknown extension fails with a *fileloader.UnsupportedFormatError before
// anything is read.
//
// After loading, integer and then float columns are narrowed, and the Info
// report is printed to the configured output unless disabled in settings.
func New(path string, opts ...Option) (*Dataset, error) {
	return NewContext(context.Background(), path, opts...)
}

// NewContext is New with a context that cancels the file read.
func NewContext(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	format, err := fileloader.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	cfg := config{
		settings: settings.Default(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.settingsFile != "" {
		s, err := settings.Load(cfg.settingsFile)
		if err != nil {
			return nil, err
		}
		cfg.settings = s
	}
	if err := cfg.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.settings.SlogLevel(),
		}))
	}

	d := &Dataset{
		id:       uuid.New().String(),
		path:     path,
		format:   format,
		settings: cfg.settings,
	}
	d.logger = cfg.logger.With("dataset_id", d.id, "format", format.String())

	var tc *cache.TableCache
	if cfg.settings.EnableLoadCache {
		tc = cfg.cache
	}
	key := d.cacheKey(tc)
	cached := false
	if key != "" {
		d.data, cached = tc.Get(key)
	}
	if !cached {
		if d.data, err = fileloader.Read(ctx, format, path); err != nil {
			return nil, err
		}
	}

	d.OptimizeInt()
	d.OptimizeFloat()
	if key != "" && !cached {
		tc.Put(key, d.data)
	}

	rows, cols := d.data.Shape()
	d.logger.Info("dataset loaded", "path", path, "rows", rows, "columns", cols,
		"memory", frame.FormatBytes(d.data.MemoryUsage()))

	if cfg.settings.PrintInfoOnLoad {
		if _, err := io.WriteString(cfg.out, d.Info()); err != nil {
			d.logger.Warn("failed to print load summary", "error", err)
		}
	}
	return d, nil
}

// cacheKey returns the key of the source in tc, or "" when there is no cache
// or the source cannot be cached. Clipboard contents are never cached, even
// when a file named like the source exists.
func (d *Dataset) cacheKey(tc *cache.TableCache) string {
	if tc == nil || d.format == fileloader.FormatClipboard {
		return ""
	}
	key, err := cache.FileKey(d.path, d.format.String())
	if err != nil {
		d.logger.Debug("table not cacheable", "path", d.path, "error", err)
		return ""
	}
	return key
}

// ID returns the unique identifier given to the dataset when it was loaded.
func (d *Dataset) ID() string { return d.id }

// Path returns the source the dataset was loaded from.
func (d *Dataset) Path() string { return d.path }

// Format returns the format the source was read as.
func (d *Dataset) Format() fileloader.Format { return d.format }

// Data returns the loaded table. It is modified in place by OptimizeInt,
// OptimizeFloat and EncodeStr.
func (d *Dataset) Data() *frame.Frame { return d.data }

// Features returns the feature table of the last split, or nil before
// SplitData has succeeded.
func (d *Dataset) Features() *frame.Frame { return d.features }

// Label returns the label column of the last split, or nil before SplitData
// has succeeded.
func (d *Dataset) Label() *frame.Column { return d.label }

// IsSplit reports whether SplitData has succeeded at least once.
func (d *Dataset) IsSplit() bool { return d.features != nil }

// Encodings returns the label encodings applied by EncodeStr, keyed by
// column name.
func (d *Dataset) Encodings() map[string]*dataprep.Encoding { return d.encodings }

// Package settings holds the user-tunable behaviour of dataset loading,
// persisted as YAML.
package settings

// Settings holds options that can be overridden by the user.
type Settings struct {
	// Rows shown by Head and Tail
	PreviewRows int `yaml:"preview_rows"`
	// Print the Info report when a dataset finishes loading.
	// No omitempty so that an explicit false is persisted.
	PrintInfoOnLoad bool `yaml:"print_info_on_load"`
	// Reuse parsed tables when the same file content is loaded again
	EnableLoadCache bool `yaml:"enable_load_cache"`
	// Cache size limit in MB for the load cache
	CacheSizeLimitMB int `yaml:"cache_size_limit_mb"`
	// One of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// defaultSettings defines the built-in defaults.
var defaultSettings = Settings{
	PreviewRows:      5,
	PrintInfoOnLoad:  true,
	EnableLoadCache:  false,
	CacheSizeLimitMB: 100,
	LogLevel:         "info",
}

// Default returns the built-in defaults.
func Default() Settings {
	return defaultSettings
}

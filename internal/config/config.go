// Package config defines service configuration and its layered loading.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath names the JSON dataset file. Empty serves the embedded
	// sample archive.
	DatasetPath string `koanf:"dataset_path"`

	// WatchDataset reloads the dataset when its file changes.
	WatchDataset bool `koanf:"watch_dataset"`

	// Layout is the default spiral preset: desktop or compact.
	Layout string `koanf:"layout"`

	// HighlightLimit is the number of highlights returned without ?limit.
	HighlightLimit int `koanf:"highlight_limit"`

	// MaxLimit caps any ?limit query parameter.
	MaxLimit int `koanf:"max_limit"`

	// TopShowsLimit sizes the top shows breakdown.
	TopShowsLimit int `koanf:"top_shows_limit"`

	// MetricsEnabled exposes Prometheus metrics on /healthz.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		DatasetPath:    "",
		WatchDataset:   false,
		Layout:         "desktop",
		HighlightLimit: 5,
		MaxLimit:       100,
		TopShowsLimit:  16,
		MetricsEnabled: true,
	}
}

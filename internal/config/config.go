// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the base directory for written artifacts.
	DataDir string `koanf:"data_dir"`

	// UserAgent identifies this collector to upstream APIs.
	UserAgent string `koanf:"user_agent"`

	// WikiBaseURL is the root of the wiki price API.
	WikiBaseURL string `koanf:"wiki_base_url"`

	// GraphBaseURL is the root of the itemdb graph API.
	GraphBaseURL string `koanf:"graph_base_url"`

	// HiscoresBaseURL is the root of the hiscores API.
	HiscoresBaseURL string `koanf:"hiscores_base_url"`

	// FetchTimeoutMS bounds a single upstream request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// WorkerCount sets the number of concurrent fetch workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory fetch queue.
	QueueSize int `koanf:"queue_size"`

	// MaxSearchResults caps GET /items?q= result rows.
	MaxSearchResults int `koanf:"max_search_results"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		DataDir:          "data",
		UserAgent:        "runelens collector",
		WikiBaseURL:      "https://prices.runescape.wiki/api/v1/osrs",
		GraphBaseURL:     "https://services.runescape.com/m=itemdb_oldschool/api",
		HiscoresBaseURL:  "https://secure.runescape.com/m=hiscore_oldschool",
		FetchTimeoutMS:   10_000,
		WorkerCount:      4,
		QueueSize:        256,
		MaxSearchResults: 25,
	}
}

package domain

import "time"

// Config represents the fastestraces configuration loaded from fastestraces.yaml.
type Config struct {
	Source SourceConfig
	Fetch  FetchConfig
	Report ReportConfig
	Paths  PathsConfig
}

type SourceConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string // empty keeps the HTTP client default
}

type FetchConfig struct {
	Concurrency int
}

type ReportConfig struct {
	HTMLFile    string
	CSSFile     string
	OpenBrowser bool
}

type PathsConfig struct {
	RunsDir string
	LogsDir string
}

// DefaultConfig provides sane defaults if fastestraces.yaml is missing or partial.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			BaseURL: "https://www.thepowerof10.info",
			Timeout: 30 * time.Second,
		},
		Fetch: FetchConfig{Concurrency: 4},
		Report: ReportConfig{
			HTMLFile:    "performance_analysis.html",
			CSSFile:     "simple_table.css",
			OpenBrowser: true,
		},
		Paths: PathsConfig{
			RunsDir: "runs",
			LogsDir: ".fastestraces/logs",
		},
	}
}

package config

type yamlConfig struct {
	Source struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"source"`

	Fetch struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"fetch"`

	Report struct {
		HTMLFile    string `yaml:"html_file"`
		CSSFile     string `yaml:"css_file"`
		OpenBrowser *bool  `yaml:"open_browser"`
	} `yaml:"report"`

	Paths struct {
		RunsDir string `yaml:"runs_dir"`
		LogsDir string `yaml:"logs_dir"`
	} `yaml:"paths"`
}

// Package config loads fastestraces.yaml and applies it on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return apply(path, cfg, y)
}

// apply layers parsed values on top of defaults.
func apply(path string, cfg domain.Config, y yamlConfig) (domain.Config, error) {
	if v := strings.TrimSpace(y.Source.BaseURL); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := strings.TrimSpace(y.Source.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "source.timeout", fmt.Sprintf("invalid duration %q", v))
		}
		cfg.Source.Timeout = d
	}
	if v := strings.TrimSpace(y.Source.UserAgent); v != "" {
		cfg.Source.UserAgent = v
	}

	if y.Fetch.Concurrency < 0 {
		return cfg, invalidField(path, "fetch.concurrency", "must not be negative")
	}
	if y.Fetch.Concurrency > 0 {
		cfg.Fetch.Concurrency = y.Fetch.Concurrency
	}

	if v := strings.TrimSpace(y.Report.HTMLFile); v != "" {
		cfg.Report.HTMLFile = v
	}
	if v := strings.TrimSpace(y.Report.CSSFile); v != "" {
		cfg.Report.CSSFile = v
	}
	if y.Report.OpenBrowser != nil {
		cfg.Report.OpenBrowser = *y.Report.OpenBrowser
	}

	if v := strings.TrimSpace(y.Paths.RunsDir); v != "" {
		cfg.Paths.RunsDir = v
	}
	if v := strings.TrimSpace(y.Paths.LogsDir); v != "" {
		cfg.Paths.LogsDir = v
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

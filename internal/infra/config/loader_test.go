package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fastestraces/fastestraces/internal/domain"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	// Partial config (no paths/fetch)
	content := []byte("report:\n  open_browser: false\nsource:\n  timeout: 5s\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Report.OpenBrowser {
		t.Fatalf("expected open_browser=false")
	}
	if cfg.Source.Timeout != 5*time.Second {
		t.Fatalf("expected timeout=5s, got %s", cfg.Source.Timeout)
	}
	if cfg.Source.BaseURL != "https://www.thepowerof10.info" {
		t.Fatalf("expected default base url, got %s", cfg.Source.BaseURL)
	}
	if cfg.Report.HTMLFile != "performance_analysis.html" {
		t.Fatalf("expected default html file, got %s", cfg.Report.HTMLFile)
	}
	if cfg.Report.CSSFile != "simple_table.css" {
		t.Fatalf("expected default css file, got %s", cfg.Report.CSSFile)
	}
	if cfg.Paths.RunsDir != "runs" {
		t.Fatalf("expected runs dir=runs, got=%s", cfg.Paths.RunsDir)
	}
	if cfg.Fetch.Concurrency != 4 {
		t.Fatalf("expected concurrency=4, got=%d", cfg.Fetch.Concurrency)
	}
	if cfg.Source.UserAgent != "" {
		t.Fatalf("expected empty user agent by default, got %q", cfg.Source.UserAgent)
	}
}

func TestLoad_UserAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("source:\n  user_agent: \" club-stats/2 \"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Source.UserAgent != "club-stats/2" {
		t.Fatalf("expected trimmed user agent, got %q", cfg.Source.UserAgent)
	}
}

func TestLoad_MissingFileIsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != domain.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"yaml":        "source: [",
		"timeout":     "source:\n  timeout: soon\n",
		"concurrency": "fetch:\n  concurrency: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := Load(path)
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected invalid_config, got %v", err)
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("expected path in error, got %v", err)
			}
		})
	}
}

func TestFinder_FindRootWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := NewFinder().FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(root)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != want {
		t.Fatalf("expected root %s, got %s", want, gotReal)
	}
}

func TestFinder_NotFound(t *testing.T) {
	f := &Finder{ConfigFile: "definitely-not-here-fastestraces.yaml"}
	_, err := f.FindRoot(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}

	if _, err := f.FindRoot(""); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config for empty start dir, got %v", err)
	}
}

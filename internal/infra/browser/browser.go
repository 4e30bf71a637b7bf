// Package browser opens generated reports with the platform's default handler.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/ports"
)

// StartFunc launches name with args without waiting for it to exit.
type StartFunc func(name string, args ...string) error

type Opener struct {
	goos  string
	start StartFunc
}

type Option func(*Opener)

// WithGOOS overrides runtime.GOOS when picking the launcher.
func WithGOOS(goos string) Option {
	return func(o *Opener) { o.goos = goos }
}

func WithStart(fn StartFunc) Option {
	return func(o *Opener) { o.start = fn }
}

func New(opts ...Option) *Opener {
	o := &Opener{goos: runtime.GOOS, start: startDetached}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ ports.Opener = (*Opener)(nil)

func (o *Opener) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &domain.OpError{Op: "browser.open", Kind: domain.KindExecution, Path: path, Err: err}
	}
	target := FileURL(abs)

	name, args := command(o.goos, target)
	if err := o.start(name, args...); err != nil {
		return &domain.OpError{
			Op:   "browser.open",
			Kind: domain.KindExecution,
			Path: abs,
			Err:  fmt.Errorf("%s: %w", name, err),
		}
	}
	return nil
}

// FileURL turns an absolute path into a file:// URL.
func FileURL(abs string) string {
	p := filepath.ToSlash(abs)
	if len(p) > 0 && p[0] != '/' {
		// Windows drive letters: C:/x -> /C:/x
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func command(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Package htmlreport renders an analysis as a standalone HTML page.
package htmlreport

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/ports"
)

//go:embed assets
var assetsFS embed.FS

const defaultStylesheet = "assets/simple_table.css"

var reportTmpl = template.Must(
	template.New("report.html.tmpl").
		Funcs(sprig.FuncMap()).
		ParseFS(assetsFS, "assets/report.html.tmpl"),
)

type view struct {
	CSSFile      string
	Query        domain.Query
	Performances int
	From, To     string
	Columns      []string
	Rows         [][]string
	GeneratedAt  time.Time
}

// Render writes the report page for a to w, linking the stylesheet cssHref.
func Render(w io.Writer, a domain.Analysis, cssHref string) error {
	v := view{
		CSSFile:      cssHref,
		Query:        a.Query,
		Performances: a.Performances,
		Columns:      a.Columns(),
		Rows:         make([][]string, 0, len(a.Races)),
		GeneratedAt:  a.GeneratedAt,
	}
	if from, to, ok := a.DateRange(); ok {
		v.From = from.Format(domain.DisplayDateLayout)
		v.To = to.Format(domain.DisplayDateLayout)
	}
	for i := range a.Races {
		v.Rows = append(v.Rows, a.Row(i))
	}
	return reportTmpl.Execute(w, v)
}

type Writer struct {
	dir      string
	htmlFile string
	cssFile  string
	log      *slog.Logger
}

type Option func(*Writer)

func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) { w.log = l }
}

// NewWriter writes htmlFile (and, when missing, cssFile) relative to dir.
func NewWriter(dir, htmlFile, cssFile string, opts ...Option) *Writer {
	w := &Writer{
		dir:      dir,
		htmlFile: htmlFile,
		cssFile:  cssFile,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ ports.ReportWriter = (*Writer)(nil)

func (w *Writer) WriteReport(a domain.Analysis) (string, error) {
	path := w.htmlFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &domain.OpError{Op: "htmlreport.path", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", &domain.OpError{Op: "htmlreport.mkdir", Kind: domain.KindExecution, Path: abs, Err: err}
	}

	var buf bytes.Buffer
	if err := Render(&buf, a, w.cssFile); err != nil {
		return "", &domain.OpError{Op: "htmlreport.render", Kind: domain.KindExecution, Path: abs, Err: err}
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return "", &domain.OpError{Op: "htmlreport.write", Kind: domain.KindExecution, Path: abs, Err: err}
	}

	cssPath, created, err := w.ensureStylesheet(filepath.Dir(abs))
	if err != nil {
		return "", err
	}

	w.log.Info("report.written", "path", abs, "races", len(a.Races), "stylesheet", cssPath, "stylesheet_created", created)
	return abs, nil
}

// ensureStylesheet writes the bundled stylesheet next to the report unless a
// file of that name already exists or the stylesheet is remote.
func (w *Writer) ensureStylesheet(dir string) (string, bool, error) {
	css := strings.TrimSpace(w.cssFile)
	if css == "" || strings.Contains(css, "://") {
		return css, false, nil
	}

	path := css
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, css)
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, false, &domain.OpError{Op: "htmlreport.stylesheet", Kind: domain.KindExecution, Path: path, Err: err}
	}

	b, err := fs.ReadFile(assetsFS, defaultStylesheet)
	if err != nil {
		return path, false, fmt.Errorf("read bundled stylesheet: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return path, false, &domain.OpError{Op: "htmlreport.stylesheet", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return path, true, nil
}

// Package fsworkspace scaffolds a directory for fastestraces: a commented
// config file, the runs directory and .gitignore entries for generated output.
package fsworkspace

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastestraces/fastestraces/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

// Init writes the templates under root. Existing files are kept unless force is set.
// It returns the files it wrote, relative to root.
func (i *Initializer) Init(root string, cfg domain.Config, force bool) ([]string, error) {
	root = filepath.Clean(root)

	if err := os.MkdirAll(filepath.Join(root, cfg.Paths.RunsDir), 0o755); err != nil {
		return nil, &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: root, Err: err}
	}

	if err := ensureGitignore(root, cfg); err != nil {
		return nil, &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	var written []string
	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}

		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return written, &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: root, Err: err}
	}
	return written, nil
}

func gitignoreEntries(cfg domain.Config) []string {
	entries := []string{
		strings.TrimSuffix(filepath.ToSlash(cfg.Paths.RunsDir), "/") + "/",
		".fastestraces/",
		cfg.Report.HTMLFile,
	}
	if logs := filepath.ToSlash(cfg.Paths.LogsDir); !strings.HasPrefix(logs, ".fastestraces/") {
		entries = append(entries, strings.TrimSuffix(logs, "/")+"/")
	}
	return entries
}

func ensureGitignore(root string, cfg domain.Config) error {
	const header = "# fastestraces"
	entries := gitignoreEntries(cfg)

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}

package runstore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/ports"
)

const defaultRunsDir = "runs"
const indexFile = "index.jsonl"

type JSONStore struct {
	rootDir     string
	runsDirName string
	writeIndex  bool
	now         func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: runs/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:     root,
		runsDirName: runsDir,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	if filepath.IsAbs(s.runsDirName) {
		return s.runsDirName
	}
	return filepath.Join(s.rootDir, s.runsDirName)
}

func (s *JSONStore) SaveRun(a domain.Analysis) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := a.GeneratedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := a
	toSave.GeneratedAt = ts

	slug := slugify(querySlug(a.Query))
	if slug == "" {
		slug = "run"
	}

	id, path := uniqueName(dir, fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug))

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, domain.RunRef{
			ID:          id,
			File:        filepath.Base(path),
			Query:       toSave.Query,
			Races:       len(toSave.Races),
			GeneratedAt: ts,
		})
	}

	return id, nil
}

// uniqueName picks base.json, or base_2.json, base_3.json... when taken.
func uniqueName(dir, base string) (id, path string) {
	id = base
	for n := 2; ; n++ {
		path = filepath.Join(dir, id+".json")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return id, path
		}
		id = base + "_" + strconv.Itoa(n)
	}
}

func (s *JSONStore) appendIndex(dir string, ref domain.RunRef) error {
	line, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, indexFile)
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// ListRuns returns indexed runs, newest first. Without an index it falls back
// to scanning the saved files.
func (s *JSONStore) ListRuns() ([]domain.RunRef, error) {
	dir := s.dir()
	refs, err := s.readIndex(filepath.Join(dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		refs, err = s.scanDir(dir)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if !refs[i].GeneratedAt.Equal(refs[j].GeneratedAt) {
			return refs[i].GeneratedAt.After(refs[j].GeneratedAt)
		}
		return refs[i].ID > refs[j].ID
	})
	return refs, nil
}

func (s *JSONStore) readIndex(path string) ([]domain.RunRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var refs []domain.RunRef
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ref domain.RunRef
		if err := json.Unmarshal([]byte(line), &ref); err != nil {
			// A torn line from an interrupted append; skip it.
			continue
		}
		refs = append(refs, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.index",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return refs, nil
}

func (s *JSONStore) scanDir(dir string) ([]domain.RunRef, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.RunRef
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		a, err := s.LoadRun(id)
		if err != nil {
			continue
		}
		refs = append(refs, domain.RunRef{
			ID:          id,
			File:        e.Name(),
			Query:       a.Query,
			Races:       len(a.Races),
			GeneratedAt: a.GeneratedAt,
		})
	}
	return refs, nil
}

// LoadRun decodes a saved analysis by id.
func (s *JSONStore) LoadRun(id string) (domain.Analysis, error) {
	id = strings.TrimSuffix(strings.TrimSpace(id), ".json")
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return domain.Analysis{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("invalid run id %q: %w", id, domain.ErrInvalidConfig),
		}
	}

	path := filepath.Join(s.dir(), id+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, os.ErrNotExist) {
			kind = domain.KindNotFound
			err = fmt.Errorf("run %q: %w", id, domain.ErrNotFound)
		}
		return domain.Analysis{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}

	var a domain.Analysis
	if err := json.Unmarshal(b, &a); err != nil {
		return domain.Analysis{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindParse,
			Path: path,
			Err:  err,
		}
	}
	return a, nil
}

func querySlug(q domain.Query) string {
	parts := []string{string(q.Gender), string(q.Distance)}
	for _, y := range q.Years {
		parts = append(parts, strconv.Itoa(y))
	}
	return strings.Join(parts, "-")
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

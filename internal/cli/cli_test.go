package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastestraces/fastestraces/internal/domain"
)

type fakeOpener struct{ opened []string }

func (f *fakeOpener) Open(path string) error {
	f.opened = append(f.opened, path)
	return nil
}

func rankingServer(t *testing.T) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile(filepath.Join("..", "infra", "powerof10", "testdata", "rankings_10k.html"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rankings/rankinglist.aspx" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// workspace creates a directory with a fastestraces.yaml and returns its config path.
func workspace(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "fastestraces.yaml")
	require.NoError(t, os.WriteFile(p, []byte(yaml), 0o644))
	return p
}

func run(t *testing.T, opener *fakeOpener, args ...string) (string, string, error) {
	t.Helper()
	if opener == nil {
		opener = &fakeOpener{}
	}
	cmd := newRootCmd(withOpener(opener))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeOptionsQuery(t *testing.T) {
	o := analyzeOptions{gender: "m", years: []int{2024, 2023, 2024}, distance: "mar"}
	q, err := o.query()
	require.NoError(t, err)
	assert.Equal(t, domain.GenderMale, q.Gender)
	assert.Equal(t, domain.DistanceMarathon, q.Distance)
	assert.Equal(t, []int{2024, 2023}, q.Years)

	_, err = (&analyzeOptions{gender: "M"}).query()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
	assert.Contains(t, err.Error(), "--year, --distance")

	_, err = (&analyzeOptions{gender: "X", years: []int{2024}, distance: "10K"}).query()
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}

func TestAnalyze_JSON(t *testing.T) {
	srv := rankingServer(t)
	cfg := workspace(t, "fetch:\n  concurrency: 2\n")

	out, _, err := run(t, nil, "analyze", "--config", cfg, "--base-url", srv.URL,
		"-g", "M", "-y", "2024", "-d", "10K", "--format", "json")
	require.NoError(t, err)

	var payload struct {
		RunID    string          `json:"run_id"`
		Analysis domain.Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	an := payload.Analysis
	assert.Equal(t, []int{29, 30, 31, 32}, an.Thresholds)
	assert.Equal(t, 5, an.Performances)
	require.Len(t, an.Races, 3)
	assert.Equal(t, "Leeds", an.Races[0].Venue)
	assert.Equal(t, []int{1, 2, 2, 2}, an.Races[0].Counts)
	assert.Equal(t, "ESP", an.Races[1].Country)
	assert.Equal(t, "Battersea Park", an.Races[2].Venue)

	require.NotEmpty(t, payload.RunID)
	_, err = os.Stat(filepath.Join(filepath.Dir(cfg), "runs", payload.RunID+".json"))
	assert.NoError(t, err)
}

func TestRootRunsAnalyze(t *testing.T) {
	srv := rankingServer(t)
	cfg := workspace(t, "")

	out, _, err := run(t, nil, "--config", cfg, "--base-url", srv.URL,
		"-g", "M", "-y", "2024", "-d", "10K", "--format", "pretty", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, out, "Performance Analysis Results")
	assert.Contains(t, out, "Data from 13 Jan 2024 to 03 Jun 2024")
	assert.Contains(t, out, "Leeds")

	_, err = os.Stat(filepath.Join(filepath.Dir(cfg), "runs", "index.jsonl"))
	assert.True(t, os.IsNotExist(err), "--no-save must not write runs")
}

func TestRootWithoutFlagsShowsHelp(t *testing.T) {
	out, _, err := run(t, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "analyze")
	assert.Contains(t, out, "history")
}

func TestAnalyze_HTMLReportOpened(t *testing.T) {
	srv := rankingServer(t)
	cfg := workspace(t, "")
	root := filepath.Dir(cfg)
	opener := &fakeOpener{}

	_, stderr, err := run(t, opener, "analyze", "--config", cfg, "--base-url", srv.URL,
		"-g", "M", "-y", "2024", "-d", "10K", "--out", "{{gender}}_{{distance}}_{{years}}.html")
	require.NoError(t, err)

	report := filepath.Join(root, "M_10K_2024.html")
	b, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Performance Analysis Results")
	assert.FileExists(t, filepath.Join(root, "simple_table.css"))

	assert.Equal(t, []string{report}, opener.opened)
	assert.Contains(t, stderr, "Report written to")
}

func TestAnalyze_NoOpenAndConfigDisablesBrowser(t *testing.T) {
	srv := rankingServer(t)

	for name, tc := range map[string]struct {
		yaml  string
		extra []string
	}{
		"flag":   {yaml: "", extra: []string{"--no-open"}},
		"config": {yaml: "report:\n  open_browser: false\n"},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := workspace(t, tc.yaml)
			opener := &fakeOpener{}
			args := append([]string{"analyze", "--config", cfg, "--base-url", srv.URL,
				"-g", "M", "-y", "2024", "-d", "10K", "--no-save"}, tc.extra...)

			_, _, err := run(t, opener, args...)
			require.NoError(t, err)
			assert.Empty(t, opener.opened)
			assert.FileExists(t, filepath.Join(filepath.Dir(cfg), "performance_analysis.html"))
		})
	}
}

func TestAnalyze_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	cfg := workspace(t, "")

	_, errOut, err := run(t, nil, "analyze", "--config", cfg, "--base-url", srv.URL,
		"-g", "F", "-y", "2024", "-d", "HM", "--format", "json")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindFetch))
	assert.Contains(t, err.Error(), "HTTP Error 503")

	logPath := filepath.Join(filepath.Dir(cfg), ".fastestraces", "logs", "fastestraces.log")
	assert.Contains(t, errOut, "[-] details in "+logPath)
	b, rerr := os.ReadFile(logPath)
	require.NoError(t, rerr)
	assert.Contains(t, string(b), `"msg":"command.failed"`)
}

func TestAnalyze_SaveFailureIsWarning(t *testing.T) {
	srv := rankingServer(t)
	cfg := workspace(t, "paths:\n  runs_dir: runs_blocker\n")
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfg), "runs_blocker"), []byte("x"), 0o644))

	out, errOut, err := run(t, nil, "analyze", "--config", cfg, "--base-url", srv.URL,
		"-g", "M", "-y", "2024", "-d", "10K", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "[-] could not save analysis")
	assert.NotContains(t, errOut, "Saved as")

	var payload struct {
		RunID    string          `json:"run_id"`
		Analysis domain.Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Empty(t, payload.RunID)
	assert.Len(t, payload.Analysis.Races, 3)
}

func TestAnalyze_ConfiguredUserAgent(t *testing.T) {
	page, err := os.ReadFile(filepath.Join("..", "infra", "powerof10", "testdata", "rankings_10k.html"))
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		agents []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.UserAgent())
		mu.Unlock()
		_, _ = w.Write(page)
	}))
	defer srv.Close()
	cfg := workspace(t, "source:\n  user_agent: club-stats/2\n")

	_, _, err = run(t, nil, "analyze", "--config", cfg, "--base-url", srv.URL,
		"-g", "M", "-y", "2024", "-y", "2023", "-d", "10K", "--format", "json", "--no-save")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"club-stats/2", "club-stats/2"}, agents)
}

func TestAnalyze_UnsupportedFormat(t *testing.T) {
	_, _, err := run(t, nil, "analyze", "-g", "M", "-y", "2024", "-d", "10K", "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestHistoryListAndShow(t *testing.T) {
	srv := rankingServer(t)
	cfg := workspace(t, "")

	out, _, err := run(t, nil, "analyze", "--config", cfg, "--base-url", srv.URL,
		"-g", "M", "-y", "2024", "-d", "10K", "--format", "json")
	require.NoError(t, err)
	var payload struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	out, _, err = run(t, nil, "history", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, payload.RunID)
	assert.Contains(t, out, "M 10K 2024")

	out, _, err = run(t, nil, "history", "show", payload.RunID, "--config", cfg, "--query", "$.races[0].venue")
	require.NoError(t, err)
	assert.Equal(t, "Leeds\n", out)

	out, _, err = run(t, nil, "history", "show", payload.RunID, "--config", cfg, "--query", "$.thresholds")
	require.NoError(t, err)
	var th []int
	require.NoError(t, json.Unmarshal([]byte(out), &th))
	assert.Equal(t, []int{29, 30, 31, 32}, th)

	_, _, err = run(t, nil, "history", "show", "nope", "--config", cfg)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestHistoryListEmpty(t *testing.T) {
	cfg := workspace(t, "")
	out, _, err := run(t, nil, "history", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "(no saved analyses)\n", out)
}

func TestMissingConfigFlagPath(t *testing.T) {
	_, _, err := run(t, nil, "history", "list", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestInitWritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")

	_, stderr, err := run(t, nil, "init", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "fastestraces.yaml"))
	assert.DirExists(t, filepath.Join(dir, "runs"))
	assert.Contains(t, stderr, "fastestraces.yaml")

	_, stderr, err = run(t, nil, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "already initialised")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fastestraces "))
}

func TestPrintPrettyEmpty(t *testing.T) {
	var buf bytes.Buffer
	printPretty(&buf, domain.Analysis{Query: domain.Query{Gender: domain.GenderFemale, Distance: domain.Distance5K, Years: []int{2020}}})
	assert.Contains(t, buf.String(), "Data from N/A to N/A")
	assert.Contains(t, buf.String(), "F 5K 2020")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", firstNonEmpty())
}

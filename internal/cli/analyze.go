package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	filetmpl "github.com/fastestraces/fastestraces/internal/app/template"
	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/infra/htmlreport"
	"github.com/fastestraces/fastestraces/internal/infra/httpclient"
	"github.com/fastestraces/fastestraces/internal/infra/logger"
	"github.com/fastestraces/fastestraces/internal/infra/powerof10"
	"github.com/fastestraces/fastestraces/internal/ports"
	"github.com/fastestraces/fastestraces/internal/usecase"
)

type analyzeOptions struct {
	gender   string
	years    []int
	distance string

	format  string
	out     string
	css     string
	noOpen  bool
	noSave  bool
	baseURL string
}

func (o *analyzeOptions) bind(c *cobra.Command) {
	f := c.Flags()
	f.StringVarP(&o.gender, "gender", "g", "", "Gender: M|F")
	f.IntSliceVarP(&o.years, "year", "y", nil, "Ranking year, repeatable or comma separated (2023,2024)")
	f.StringVarP(&o.distance, "distance", "d", "", "Distance: 10K|HM|Mar|5K")
	f.StringVar(&o.format, "format", "html", "Output format: html|pretty|json")
	f.StringVarP(&o.out, "out", "o", "", "HTML report file; may use {{gender}} {{distance}} {{year}} {{years}} (default from config)")
	f.StringVar(&o.css, "css", "", "Stylesheet linked from the report (default from config)")
	f.BoolVar(&o.noOpen, "no-open", false, "Do not open the report in the browser")
	f.BoolVar(&o.noSave, "no-save", false, "Do not save the analysis under runs/")
	f.StringVar(&o.baseURL, "base-url", "", "Ranking site base URL (default from config)")
}

func (o *analyzeOptions) anySet(c *cobra.Command) bool {
	for _, name := range []string{"gender", "year", "distance"} {
		if c.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (o *analyzeOptions) query() (domain.Query, error) {
	var missing []string
	if strings.TrimSpace(o.gender) == "" {
		missing = append(missing, "--gender")
	}
	if len(o.years) == 0 {
		missing = append(missing, "--year")
	}
	if strings.TrimSpace(o.distance) == "" {
		missing = append(missing, "--distance")
	}
	if len(missing) > 0 {
		return domain.Query{}, &domain.OpError{
			Op:   "cli.analyze",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("required flag(s) %s not set: %w", strings.Join(missing, ", "), domain.ErrInvalidConfig),
		}
	}

	q := domain.Query{
		Gender:   domain.Gender(o.gender),
		Distance: domain.Distance(o.distance),
		Years:    o.years,
	}
	return q.Normalize()
}

func analyzeCmd(a *app) *cobra.Command {
	var o analyzeOptions

	c := &cobra.Command{
		Use:   "analyze",
		Short: "Rank the races of a year by how many fast performances they produced",
		Example: "  fastestraces analyze -g M -y 2024 -d 10K\n" +
			"  fastestraces analyze -g F -y 2023,2024 -d HM --format pretty",
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, a, o)
		}),
	}

	o.bind(c)
	return c
}

func runAnalyze(cmd *cobra.Command, a *app, o analyzeOptions) error {
	format := strings.ToLower(strings.TrimSpace(o.format))
	switch format {
	case "html", "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (expected html|pretty|json)", o.format)
	}

	q, err := o.query()
	if err != nil {
		return err
	}

	ws, err := a.workspace()
	if err != nil {
		return err
	}
	cfg := ws.cfg
	log := logger.L()

	exec := httpclient.NewExecutor(httpclient.WithTimeout(cfg.Source.Timeout))
	srcOpts := []powerof10.Option{
		powerof10.WithBaseURL(firstNonEmpty(o.baseURL, cfg.Source.BaseURL)),
		powerof10.WithLogger(log),
	}
	if cfg.Source.UserAgent != "" {
		srcOpts = append(srcOpts, powerof10.WithUserAgent(cfg.Source.UserAgent))
	}
	src := powerof10.New(exec, srcOpts...)

	var store ports.ArtifactStore = ws.store
	if o.noSave {
		store = nil
	}

	uc := usecase.NewAnalyze(src, store,
		usecase.WithConcurrency(cfg.Fetch.Concurrency),
		usecase.WithLogger(log),
	)

	infoMsg(stderr(cmd), "Fetching %s %s rankings for %s", q.Gender, q.Distance.Label(), joinYears(q.Years))

	an, id, err := uc.Execute(cmd.Context(), q)
	if err != nil {
		if an.Performances == 0 {
			return err
		}
		// The analysis is complete; only saving it failed.
		warnMsg(stderr(cmd), "could not save analysis: %v", err)
	}
	infoMsg(stderr(cmd), "%d performances across %d races", an.Performances, len(an.Races))
	if id != "" {
		infoMsg(stderr(cmd), "Saved as %s", id)
	}

	switch format {
	case "json":
		return printJSON(stdout(cmd), an, id)
	case "pretty":
		printPretty(stdout(cmd), an)
		return nil
	}

	reports := queryReport{
		root:    ws.root,
		pattern: firstNonEmpty(o.out, cfg.Report.HTMLFile),
		css:     firstNonEmpty(o.css, cfg.Report.CSSFile),
		log:     log,
	}
	path, err := reports.WriteReport(an)
	if err != nil {
		return err
	}
	infoMsg(stderr(cmd), "Report written to %s", path)

	if o.noOpen || !cfg.Report.OpenBrowser || a.opener == nil {
		return nil
	}
	if err := a.opener.Open(path); err != nil {
		log.Warn("report.open_failed", "path", path, "err", err)
		warnMsg(stderr(cmd), "could not open the report: %v", err)
	}
	return nil
}

// queryReport names each report file after the analysis' query.
type queryReport struct {
	root    string
	pattern string
	css     string
	log     *slog.Logger
}

var _ ports.ReportWriter = queryReport{}

func (r queryReport) WriteReport(an domain.Analysis) (string, error) {
	name, err := filetmpl.FileName(r.pattern, an.Query)
	if err != nil {
		return "", err
	}
	return htmlreport.NewWriter(r.root, name, r.css, htmlreport.WithLogger(r.log)).WriteReport(an)
}

func printJSON(w io.Writer, an domain.Analysis, runID string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	payload := map[string]any{
		"run_id":   runID,
		"analysis": an,
	}
	return enc.Encode(payload)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/PaesslerAG/jsonpath"
	"github.com/spf13/cobra"

	"github.com/fastestraces/fastestraces/internal/domain"
)

func historyCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved analyses",
	}

	c.AddCommand(historyListCmd(a), historyShowCmd(a))
	return c
}

func historyListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}

			refs, err := ws.store.ListRuns()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Fprintln(stdout(cmd), "(no saved analyses)")
				return nil
			}
			printRunRefs(stdout(cmd), refs)
			return nil
		}),
	}
}

func printRunRefs(w io.Writer, refs []domain.RunRef) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUERY\tRACES\tGENERATED")
	for _, r := range refs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.Query.String(), r.Races, r.GeneratedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func historyShowCmd(a *app) *cobra.Command {
	var query string
	var format string

	c := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved analysis",
		Example: "  fastestraces history show 20240601T100000Z_m-10k-2024\n" +
			"  fastestraces history show 20240601T100000Z_m-10k-2024 --query '$.races[0].venue'",
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}

			an, err := ws.store.LoadRun(args[0])
			if err != nil {
				return err
			}

			if strings.TrimSpace(query) != "" {
				return printQuery(stdout(cmd), an, query)
			}

			switch strings.ToLower(format) {
			case "json":
				return printJSON(stdout(cmd), an, strings.TrimSuffix(args[0], ".json"))
			case "pretty", "":
				printPretty(stdout(cmd), an)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
			}
		}),
	}

	c.Flags().StringVar(&query, "query", "", "JSONPath expression evaluated against the saved analysis")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

// printQuery evaluates expr against the analysis' JSON form. Scalars are
// printed bare, everything else as indented JSON.
func printQuery(w io.Writer, an domain.Analysis, expr string) error {
	doc, err := toJSONDoc(an)
	if err != nil {
		return err
	}

	val, err := jsonpath.Get(strings.TrimSpace(expr), doc)
	if err != nil {
		return &domain.OpError{
			Op:   "history.query",
			Kind: domain.KindInvalidConfig,
			Path: expr,
			Err:  fmt.Errorf("jsonpath: %w", err),
		}
	}

	switch v := val.(type) {
	case string:
		fmt.Fprintln(w, v)
	case float64, bool, nil:
		fmt.Fprintln(w, v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	}
	return nil
}

func toJSONDoc(an domain.Analysis) (any, error) {
	b, err := json.Marshal(an)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/fastestraces/fastestraces/internal/infra/logger"
	"github.com/fastestraces/fastestraces/internal/ui/tui"
)

func viewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [id]",
		Short: "Browse saved analyses in an interactive table",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(_ *cobra.Command, args []string) error {
			ws, err := a.workspace()
			if err != nil {
				return err
			}

			id := ""
			if len(args) == 1 {
				id = args[0]
			}

			deps := tui.Deps{
				Store: ws.store,
				Reports: queryReport{
					root:    ws.root,
					pattern: ws.cfg.Report.HTMLFile,
					css:     ws.cfg.Report.CSSFile,
					log:     logger.L(),
				},
				Opener: a.opener,
				Logger: logger.L(),
				Debug:  a.debug,
			}
			return tui.Run(deps, id)
		}),
	}
}

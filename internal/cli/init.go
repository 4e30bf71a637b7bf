package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/infra/fsworkspace"
)

func initCmd(_ *app) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a commented fastestraces.yaml and prepare runs/ and .gitignore",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}
			if err := os.MkdirAll(root, 0o755); err != nil {
				return &domain.OpError{Op: "cli.init", Kind: domain.KindExecution, Path: root, Err: err}
			}

			written, err := fsworkspace.NewInitializer().Init(root, domain.DefaultConfig(), force)
			if err != nil {
				return err
			}

			if len(written) == 0 {
				infoMsg(stderr(cmd), "%s already initialised (use --force to overwrite)", root)
				return nil
			}
			for _, f := range written {
				infoMsg(stderr(cmd), "wrote %s", filepath.Join(root, f))
			}
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return c
}

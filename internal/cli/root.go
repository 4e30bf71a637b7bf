// Package cli wires the fastestraces commands.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fastestraces/fastestraces/internal/infra/browser"
	"github.com/fastestraces/fastestraces/internal/infra/logger"
	"github.com/fastestraces/fastestraces/internal/ports"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		errorMsg(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

// app holds what the commands share: global flags, the lazily loaded
// workspace and the logger cleanup.
type app struct {
	debug      bool
	configFlag string

	opener ports.Opener

	ws      *workspaceCtx
	cleanup func() error
	logPath string
}

type appOption func(*app)

func withOpener(o ports.Opener) appOption {
	return func(a *app) { a.opener = o }
}

// workspace loads the config once and starts file logging under its root.
func (a *app) workspace() (*workspaceCtx, error) {
	if a.ws != nil {
		return a.ws, nil
	}
	ws, err := loadWorkspace(a.configFlag)
	if err != nil {
		return nil, err
	}
	a.ws = ws

	cleanup, lerr := logger.Setup(logger.Config{
		Root:  ws.root,
		Dir:   ws.cfg.Paths.LogsDir,
		Debug: a.debug,
	})
	if lerr == nil {
		a.cleanup = cleanup
		a.logPath = logger.Path()
		logger.L().Debug("workspace.loaded", "root", ws.root, "config", ws.configPath)
	}
	return ws, nil
}

// run closes the log file once fn returns, whatever the outcome. A failed
// command also points the user at the log file when one is open.
func (a *app) run(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		err := fn(cmd, args)
		if err != nil && a.logPath != "" {
			logger.L().Error("command.failed", "command", cmd.CommandPath(), "err", err)
			warnMsg(stderr(cmd), "details in %s", a.logPath)
		}
		return err
	}
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
		a.cleanup = nil
	}
}

func newRootCmd(opts ...appOption) *cobra.Command {
	a := &app{opener: browser.New()}
	for _, opt := range opts {
		opt(a)
	}

	var ao analyzeOptions

	cmd := &cobra.Command{
		Use:   "fastestraces",
		Short: "Find the road races with the deepest fields on The Power of 10",
		Long: "fastestraces downloads a Power of 10 ranking list and counts, per race,\n" +
			"how many performances beat each whole-minute threshold.\n\n" +
			"Called with -g/-y/-d it behaves like `fastestraces analyze`.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if !ao.anySet(cmd) {
				return cmd.Help()
			}
			return runAnalyze(cmd, a, ao)
		}),
	}

	ao.bind(cmd)

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable verbose logging to .fastestraces/logs/fastestraces.log")
	cmd.PersistentFlags().StringVar(&a.configFlag, "config", "", "path to fastestraces.yaml (default: search upward from the working directory)")

	cmd.AddCommand(
		analyzeCmd(a),
		historyCmd(a),
		viewCmd(a),
		initCmd(a),
		versionCmd(),
	)

	return cmd
}

func stdout(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
func stderr(cmd *cobra.Command) io.Writer { return cmd.ErrOrStderr() }

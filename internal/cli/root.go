// Package cli is the csvboard command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/csvboard/internal/auth"
	"github.com/Makepad-fr/csvboard/internal/config"
	"github.com/Makepad-fr/csvboard/internal/csvload"
	"github.com/Makepad-fr/csvboard/internal/layout"
	"github.com/Makepad-fr/csvboard/internal/logging"
	"github.com/Makepad-fr/csvboard/internal/router"
	"github.com/Makepad-fr/csvboard/internal/store/jsonstore"
	"github.com/Makepad-fr/csvboard/internal/tui"
	"github.com/Makepad-fr/csvboard/internal/ui"
)

// exitError carries a process exit code (1 error, 2 usage).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, a ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, a...)}
}

// env is the state shared by all commands, filled in PersistentPreRunE.
type env struct {
	configPath string
	verbose    bool
	color      bool
	noColor    bool
	startPath  string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "csvboard",
		Short: "Terminal dashboard for CSV data, with a to-do list",
		Long: `csvboard loads tabular data from CSV files or URLs and shows it in an
admin dashboard next to a home page and a to-do list. Views are selected by
path: / (admin), /home and /todo.

Run without arguments to start the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.SetColorForcing(e.color, e.noColor)
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			ui.SetTheme(cfg.UI.Theme)

			opts := logging.Options{Level: cfg.Logging.Level, Verbose: e.verbose, File: cfg.Logging.File}
			if e.verbose && cmd != cmd.Root() {
				// subcommands print to the terminal anyway; let the log join them
				opts.File = ""
			}
			e.logger, err = logging.New(opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runInteractive(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default "+config.DefaultDir()+"/config.toml)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&e.color, "color", false, "color output even when not writing to a terminal")
	root.PersistentFlags().BoolVar(&e.noColor, "no-color", false, "never color output")
	root.Flags().StringVarP(&e.startPath, "path", "p", "", "view to open first (overrides ui.start_path)")

	root.AddCommand(
		newLoadCmd(e),
		newRoutesCmd(),
		newResolveCmd(),
		newTodoCmd(e),
		newAuthCmd(),
		newConfigCmd(e),
	)
	return root
}

// Execute runs the command line and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.code == 2 {
			fmt.Fprintln(stderr, "Run 'csvboard --help' for usage.")
		}
		return ee.code
	}
	if isUsage(err) {
		fmt.Fprintln(stderr, "Run 'csvboard --help' for usage.")
		return 2
	}
	return 1
}

// isUsage spots the argument and flag errors cobra returns as plain errors.
func isUsage(err error) bool {
	msg := err.Error()
	for _, p := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "invalid argument", "flag needs an argument"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func (e *env) loader() *csvload.Loader {
	return csvload.New(
		csvload.WithHTTP(e.cfg.Data.Timeout, auth.Source()),
		csvload.WithLogger(e.logger),
	)
}

func (e *env) todoStore() (*jsonstore.Store, error) {
	return jsonstore.New(e.cfg.Todo.File)
}

func (e *env) runInteractive(ctx context.Context) error {
	store, err := e.todoStore()
	if err != nil {
		return err
	}
	vp := layout.FromTerminal(os.Stdout, 80)
	deps := tui.Deps{
		Routes:      router.Default(),
		Loader:      e.loader(),
		Sources:     e.cfg.Data.Sources,
		PriceColumn: e.cfg.Data.PriceCol,
		Todos:       store,
		Viewport:    vp,
		Signal:      layout.NewSignal(vp, e.cfg.Layout.Breakpoint),
		Logger:      e.logger,
	}

	if e.cfg.Data.Watch {
		w, err := csvload.NewWatcher(e.cfg.Data.Sources, 300*time.Millisecond, e.logger)
		if err != nil {
			e.logger.Warn("csv watch disabled", zap.Error(err))
		} else {
			defer w.Close()
			deps.Changes = w.Events()
		}
	}

	start := e.startPath
	if start == "" {
		start = e.cfg.UI.StartPath
	}
	e.logger.Info("start", zap.String("path", start), zap.Strings("sources", e.cfg.Data.Sources))
	return tui.Run(ctx, deps, start)
}

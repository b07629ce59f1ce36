package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/five82/telly/internal/app"
	"github.com/five82/telly/internal/logtail"
)

type rootFlags struct {
	configPath string
	prefsPath  string
	page       int
	minQuery   int
	debounce   time.Duration
	verbose    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "telly: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "telly",
		Short: "Browse TV shows from TVMaze in the terminal",
		Long: `telly browses the TVMaze catalog.

Run without arguments to start the interactive browser: a page of shows
grouped by genre, with search as you type. The list, search and show
subcommands print plain text for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options(cmd))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/telly/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/telly/prefs.toml)")
	pf.IntVar(&flags.page, "page", 0, "dashboard page to load")
	pf.IntVar(&flags.minQuery, "min-query", 0, "minimum query length before searching")
	pf.DurationVar(&flags.debounce, "debounce", 0, "delay after the last keystroke before searching")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newListCmd(flags), newSearchCmd(flags), newShowCmd(flags), newLogsCmd(flags))
	return root
}

// options builds app options, overriding config only for flags the user set.
func (f *rootFlags) options(cmd *cobra.Command) app.Options {
	opts := app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		Verbose:    f.verbose,
	}
	changed := cmd.Flags().Changed
	if changed("page") {
		opts.Overrides.Page = &f.page
	}
	if changed("min-query") {
		opts.Overrides.MinQueryLength = &f.minQuery
	}
	if changed("debounce") {
		opts.Overrides.Debounce = &f.debounce
	}
	return opts
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print a page of shows grouped by genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Bootstrap(flags.options(cmd))
			if err != nil {
				return err
			}
			defer env.Close()
			return app.PrintList(cmd.Context(), cmd.OutOrStdout(), env.Client, env.Config.Page, env.Logger)
		},
	}
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search shows by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Bootstrap(flags.options(cmd))
			if err != nil {
				return err
			}
			defer env.Close()
			return app.PrintSearch(cmd.Context(), cmd.OutOrStdout(), env.Client, args[0], env.Config.MinQueryLength, env.Logger)
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print details for one show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Bootstrap(flags.options(cmd))
			if err != nil {
				return err
			}
			defer env.Close()
			return app.PrintShow(cmd.Context(), cmd.OutOrStdout(), env.Client, args[0], env.Logger)
		},
	}
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the telly log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			minLevel, err := zapcore.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("invalid --level %q: %w", level, err)
			}
			env, err := app.Bootstrap(flags.options(cmd))
			if err != nil {
				return err
			}
			defer env.Close()

			path := env.Config.LogFile
			if path == "" {
				return fmt.Errorf("logging is disabled (log_file = \"off\")")
			}
			raw, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			formatted := logtail.Format(raw, minLevel)
			if len(formatted) == 0 {
				fmt.Fprintf(out, "No log entries in %s\n", path)
				return nil
			}
			for _, line := range formatted {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show (debug, info, warn, error)")
	return cmd
}

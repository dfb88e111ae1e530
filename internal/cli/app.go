package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type App struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
}

type globalFlags struct {
	JSON    bool
	Verbose bool
	NoColor bool
}

func NewApp(version string) App {
	return App{Version: version, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (a App) Run(args []string) error {
	return a.RunContext(context.Background(), args)
}

func (a App) RunContext(ctx context.Context, args []string) error {
	root := a.newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a App) newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "gfare",
		Short: "Price one-way flights against the Amadeus flight-offers API",
		Long: `gfare - Price one-way flights against the Amadeus flight-offers API

Credentials come from AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET (a .env file
in the working directory is read first) or from gfare auth login.`,
		Version:                    a.Version,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: suggestionDistance,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return unknownCommandError{Name: args[0], Suggestions: cmd.SuggestionsFor(args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(a.stdout())
	root.SetErr(a.stderr())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return ExitError{Code: ExitInvalidUsage, Err: err}
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&g.JSON, "json", false, "JSON output")
	pf.BoolVarP(&g.Verbose, "verbose", "v", false, "Debug logging to stderr")
	pf.BoolVar(&g.NoColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored output")

	root.AddCommand(
		a.searchCmd(g),
		a.doctorCmd(g),
		a.serveCmd(g),
		a.authCmd(g),
		a.configCmd(g),
	)
	return root
}

func (a App) stdout() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

func (a App) stderr() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}

// exactArgs rejects positional arguments with an invalid-usage exit code.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return newExitError(ExitInvalidUsage, "usage: %s", usage)
		}
		return nil
	}
}

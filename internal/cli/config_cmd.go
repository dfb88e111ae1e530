package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agisilaos/gfare/internal/config"
)

func (a App) configCmd(g *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Read or write config values",
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return newExitError(ExitInvalidUsage, "usage: gfare config get <key> | gfare config set <key> <value>")
			}
			return newExitError(ExitInvalidUsage, "unknown config action %q", args[0])
		},
	}
	c.AddCommand(
		&cobra.Command{
			Use:       "get <key>",
			Short:     "Print a config value (secrets are masked)",
			Args:      exactArgs(1, "gfare config get <key>"),
			ValidArgs: configKeys,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return wrapExitError(ExitGenericFailure, err)
				}
				val, ok := configGet(cfg, args[0])
				if !ok {
					return ExitError{Code: ExitInvalidUsage, Err: unknownKeyError(args[0])}
				}
				if g.JSON {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"key": args[0], "value": val})
				}
				fmt.Fprintln(cmd.OutOrStdout(), val)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Write a config value",
			Args:  exactArgs(2, "gfare config set <key> <value>"),
			ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
				if len(args) == 0 {
					return configKeys, cobra.ShellCompDirectiveNoFileComp
				}
				return nil, cobra.ShellCompDirectiveNoFileComp
			},
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadFile()
				if err != nil {
					return wrapExitError(ExitGenericFailure, err)
				}
				if err := configSet(&cfg, args[0], args[1]); err != nil {
					return newExitError(ExitInvalidUsage, "%v", err)
				}
				if err := config.Save(cfg); err != nil {
					return wrapExitError(ExitGenericFailure, err)
				}
				return writeMaybeJSON(cmd.OutOrStdout(), g, map[string]any{"ok": true, "key": args[0]})
			},
		},
	)
	return c
}

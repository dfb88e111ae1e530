package cli

import (
	"github.com/spf13/cobra"

	"github.com/agisilaos/gfare/internal/config"
)

func (a App) authCmd(g *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "auth",
		Short: "Show or store Amadeus credentials",
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return newExitError(ExitInvalidUsage, "auth requires subcommand: login|status")
			}
			return newExitError(ExitInvalidUsage, "unknown auth subcommand %q", args[0])
		},
	}
	c.AddCommand(a.authStatusCmd(g), a.authLoginCmd(g))
	return c
}

func (a App) authStatusCmd(g *globalFlags) *cobra.Command {
	var check bool
	c := &cobra.Command{
		Use:   "status",
		Short: "Report which credentials are configured",
		Args:  exactArgs(0, "gfare auth status [--check]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !check {
				cfg, err := config.Load()
				if err != nil {
					return wrapExitError(ExitGenericFailure, err)
				}
				return writeMaybeJSON(cmd.OutOrStdout(), g, authStatus(cfg))
			}

			rt, err := a.bootstrap(g, false)
			if err != nil {
				return err
			}
			defer rt.close()
			status := authStatus(rt.cfg)
			_, tokenErr := rt.tokens.Token(cmd.Context())
			status["token"] = tokenErr == nil
			if tokenErr != nil {
				status["error"] = tokenErr.Error()
			}
			if err := writeMaybeJSON(cmd.OutOrStdout(), g, status); err != nil {
				return wrapExitError(ExitGenericFailure, err)
			}
			return wrapProviderError(tokenErr)
		},
	}
	c.Flags().BoolVar(&check, "check", false, "Exchange the credentials for a token")
	return c
}

func (a App) authLoginCmd(g *globalFlags) *cobra.Command {
	var clientID, clientSecret, baseURL string
	c := &cobra.Command{
		Use:   "login",
		Short: "Store Amadeus client credentials in the config file",
		Args:  exactArgs(0, "gfare auth login --client-id ID --client-secret SECRET [--base-url URL]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile()
			if err != nil {
				return wrapExitError(ExitGenericFailure, err)
			}
			if err := applyAuthLogin(&cfg, clientID, clientSecret, baseURL); err != nil {
				return newExitError(ExitInvalidUsage, "%v", err)
			}
			if err := config.Save(cfg); err != nil {
				return wrapExitError(ExitGenericFailure, err)
			}
			return writeMaybeJSON(cmd.OutOrStdout(), g, map[string]any{"ok": true, "ready": validateCredentials(cfg) == nil})
		},
	}
	f := c.Flags()
	f.StringVar(&clientID, "client-id", "", "Amadeus API key")
	f.StringVar(&clientSecret, "client-secret", "", "Amadeus API secret")
	f.StringVar(&baseURL, "base-url", "", "Amadeus base URL (default test environment)")
	return c
}

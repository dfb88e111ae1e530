package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agisilaos/gfare/internal/server"
)

func (a App) serveCmd(g *globalFlags) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search and health endpoints over HTTP",
		Args:  exactArgs(0, "gfare serve [--addr HOST:PORT]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.bootstrap(g, true)
			if err != nil {
				return err
			}
			defer rt.close()

			if addr == "" {
				addr = rt.cfg.ListenAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			srv := server.New(rt.service, server.Options{
				Addr:           addr,
				AllowedOrigins: rt.cfg.AllowedOrigins,
				Logger:         rt.logger,
			})
			if err := srv.ListenAndServe(ctx); err != nil {
				return wrapExitError(ExitGenericFailure, err)
			}
			return nil
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "Listen address (default listen_addr from config)")
	return c
}

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and its forms over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			logger.Info("starting",
				slog.String("addr", cfg.HTTP.Addr),
				slog.String("api", cfg.API.BaseURL),
				slog.String("sessions", cfg.Session.Backend),
			)
			return app.Serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	_ = opts.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/container/bootstrap"
	"github.com/kbukum/container/observability"
	"github.com/kbukum/container/server"
	"github.com/kbukum/container/server/middleware"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Attach the configured handles and serve the admin API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}

			srv := server.New(cfg.Server, app.Logger)
			metrics, err := observability.NewHTTPMetrics(observability.Meter(serviceName))
			if err != nil {
				return err
			}
			srv.Use(middleware.Metrics(metrics))
			srv.RegisterAdmin(app.Name, app.Components, app.Registry)

			app.OnReady(srv.Start)
			app.OnStop(srv.Stop)
			return app.Run(cmd.Context())
		},
	}
}

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/appforge/skelgen/pkg/api"
	"github.com/appforge/skelgen/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve skeleton generation over HTTP",
		Description: `Starts an HTTP server. POST /v1/skeleton?name=<appName> returns the
generated repository tree as a zip archive; nothing is written to disk.

Routes:
  POST /v1/skeleton   generate a skeleton (query: name, groupId, javaVersion,
                      appVersion, applicationType, strict, checksums)
  GET  /v1/tokens     derived tokens for ?name=
  GET  /health        liveness
  GET  /ready         readiness
  GET  /metrics       Prometheus metrics`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen address",
			},
			&cli.StringFlag{
				Name:    "port",
				Usage:   "listen port",
				Sources: cli.EnvVars(server.EnvPort),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := server.DefaultConfig()
			if addr := cmd.String("address"); addr != "" {
				cfg.Address = addr
			}
			if p := cmd.String("port"); p != "" {
				port, err := parsePort(p)
				if err != nil {
					return err
				}
				cfg.Port = port
			}

			return api.Serve(ctx, cfg, configOptions(cmd)...)
		},
	}
}

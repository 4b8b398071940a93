/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/ipd/pkg/api"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Serve the archive over a read-only REST API until interrupted.

When an API key is configured, every /api/v1 request must send it in the
X-API-Key header. Prometheus metrics are served on /metrics.

Examples:
  ipd serve
  ipd serve --bind 0.0.0.0 --port 9300 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			serverConfig := api.ServerConfig{
				Bind:   a.cfg.Server.Bind,
				Port:   a.cfg.Server.Port,
				APIKey: a.cfg.Server.APIKey,
			}
			if cmd.Flags().Changed("bind") {
				serverConfig.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("port") {
				serverConfig.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("api-key") {
				serverConfig.APIKey, _ = cmd.Flags().GetString("api-key")
			}

			registry, err := a.registry()
			if err != nil {
				return err
			}

			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if container == nil {
				return errors.New("dependency container not initialized")
			}
			starter := container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(ctx, store, registry, serverConfig, a.logger)
		},
	}

	serveCmd.Flags().String("bind", "", "Address to bind (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key required on /api/v1 (overrides config)")
	return serveCmd
}

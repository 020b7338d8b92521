package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/sportsmind/internal/fixture"
	"github.com/abhisek/sportsmind/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local scoring service for offline use and demos",
	Long: `Serve the question catalog and a deterministic scorer over HTTP.

Point api.base_url at this address to take the test without the hosted
service. Results live in memory and are lost on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Fixture.Addr = addr
		}

		srv, err := fixture.New(
			fixture.WithLogger(logger.Named("fixture")),
			fixture.WithCORSOrigins(cfg.Fixture.CORSOrigins))
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context(), cfg.Fixture.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides fixture.addr)")
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/entrypoint"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Pending migrations are applied on startup. The orphan link sweep runs on
INTEGRITY_SWEEP_SCHEDULE when INTEGRITY_SWEEP_ENABLED is true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.Config(), opts.Version)
		},
	}

	cmd.Flags().String("host", "", "listen host")
	cmd.Flags().Int32("port", 0, "listen port")
	bindFlags(opts.Viper, cmd.Flags(), map[string]string{
		"host": "host",
		"port": "port",
	})

	return cmd
}

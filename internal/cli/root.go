package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/logger"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	Version string
	Commit  string

	// Viper carries environment defaults; flags bound to it take precedence.
	Viper *viper.Viper
}

// Config builds the configuration from environment and flags.
func (o *RootOptions) Config() *config.Config {
	return config.Load(o.Viper)
}

// Logger builds a logger for the configured mode.
func (o *RootOptions) Logger() (*logger.Logger, error) {
	return logger.New(o.Config().Log.Mode)
}

// NewRootCommand creates the root command. Without a subcommand it serves HTTP.
func NewRootCommand(version, commit string) *cobra.Command {
	return newRootCommand(&RootOptions{
		Version: version,
		Commit:  commit,
		Viper:   config.NewViper(),
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:           "library",
		Short:         "Student and book library service",
		Long:          "A REST service managing books, students and the books each student holds.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	flags := cmd.PersistentFlags()
	flags.String("database-driver", "", "database driver (sqlite|postgres)")
	flags.String("database-path", "", "SQLite database file")
	flags.String("database-dsn", "", "Postgres connection string")
	flags.String("log-mode", "", "log mode (development|production)")
	bindFlags(opts.Viper, flags, map[string]string{
		"database_driver": "database-driver",
		"database_path":   "database-path",
		"database_dsn":    "database-dsn",
		"log_mode":        "log-mode",
	})

	// The root command serves too, so it accepts the serve flags.
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

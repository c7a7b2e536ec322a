package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/database"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			var applied []database.SchemaMigration
			if err := db.DB.Order("version ASC").Find(&applied).Error; err != nil {
				return fmt.Errorf("list applied migrations: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database schema is up to date (%s)\n", db.Driver())
			for _, m := range applied {
				fmt.Fprintf(out, "  %s  applied %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func openDatabase(opts *RootOptions) (*database.Database, error) {
	cfg := opts.Config()
	log, err := opts.Logger()
	if err != nil {
		return nil, err
	}
	return database.NewDatabase(database.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	}, log)
}

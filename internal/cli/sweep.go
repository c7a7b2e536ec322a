package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/tasks"
)

func NewSweepCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete student/book links whose student or book no longer exists",
		Long: `Delete student/book links whose student or book no longer exists.

Runs the sweep in-process, without going through the task queue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			log, err := opts.Logger()
			if err != nil {
				return err
			}

			deleted, err := tasks.SweepOrphanLinks(cmd.Context(), db.StudentBooks(), log.With("trigger", "cli"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d orphan link(s)\n", deleted)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "library %s (commit %s)\n", opts.Version, opts.Commit)
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the timelog release.
const Version = "0.3.0"

const modulePath = "github.com/mesh-intelligence/timelog"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the timelog version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "timelog v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}

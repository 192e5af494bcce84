package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/timelog/internal/export"
)

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns an export can include",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTIFIER\tHEADER\tSOURCE")
			for _, c := range export.Catalog() {
				fmt.Fprintf(w, "%s\t%s\t%s.%s\n", c.Identifier, c.DisplayName, c.SourceTable, c.SourceColumn)
			}
			return w.Flush()
		},
	}
}

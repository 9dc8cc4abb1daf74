package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/MeKo-Tech/noisetex/internal/scene"
	"github.com/spf13/cobra"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the available scenes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, name := range scene.Names() {
			s, err := scene.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Summary)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(scenesCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refsCmd = &cobra.Command{
	Use:   "refs <work-item-id>",
	Short: "List the targets that declare a work item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Registry == nil {
			return fmt.Errorf("registry not initialized")
		}

		out := cmd.OutOrStdout()
		refs := Registry.References(args[0])
		if len(refs) == 0 {
			fmt.Fprintf(out, "No targets reference %s.\n", args[0])
			return nil
		}
		for _, t := range refs {
			fmt.Fprintf(out, "%-8s %s\n", t.Kind, t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refsCmd)
}

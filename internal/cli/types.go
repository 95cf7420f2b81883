package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/witag/pkg/models"
)

var typesCmd = &cobra.Command{
	Use:         "types",
	Short:       "List the work item types",
	Annotations: map[string]string{skipInitAnnotation: "true"},
	Args:        cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, t := range models.AllWorkItemTypes() {
			marker := ""
			if t == models.DefaultWorkItemType {
				marker = " (default)"
			}
			fmt.Fprintf(out, "%-5s %s%s\n", styledType(t), t.Description(), marker)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

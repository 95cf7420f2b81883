package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/pkg/models"
)

var showCmd = &cobra.Command{
	Use:   "show <target>",
	Short: "Show the effective work items of a class or method",
	Long: `Show the work items of a test class (com.example.MyTest) or test method
(com.example.MyTest#testLogin).

For a class the output lists its ancestors, root first, and every work item
it inherits from them followed by its own.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Registry == nil {
			return fmt.Errorf("registry not initialized")
		}

		target, err := models.ParseTarget(args[0])
		if err != nil {
			return err
		}
		tt, err := core.NewQuery(Registry).Get(target)
		if err != nil {
			return err
		}

		var ancestors []string
		if !target.IsMethod() {
			ancestors, _ = Registry.Ancestors(target.Class)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", titleStyle.Render(target.String()), target.Kind)
		if len(ancestors) > 0 {
			fmt.Fprintf(out, "  ancestors (root first): %s\n", strings.Join(ancestors, ", "))
		}
		if len(tt.Effective) == 0 {
			fmt.Fprintln(out, "  No work items.")
			return nil
		}

		tbl := newTable("TARGET", "TYPE", "ID", "LINK", "FROM")
		tbl.Rows(workItemRows(tt, ancestors, "", Linker)...)
		fmt.Fprintln(out, tbl.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

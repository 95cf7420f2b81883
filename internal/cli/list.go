package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/pkg/models"
)

var (
	listGlob     string
	listType     string
	listUntagged bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tagged test classes and methods",
	Long: `List every test class and method that carries work items, one row per
work item. Class rows include work items inherited from ancestor classes,
with the declaring ancestor shown in the FROM column.

Use --glob to select targets by name (e.g. --glob 'com.example.*') and
--type to keep a single work item type.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Registry == nil {
			return fmt.Errorf("registry not initialized")
		}

		filter := core.QueryFilter{Glob: listGlob, TaggedOnly: !listUntagged}
		if listType != "" {
			t, err := models.ParseWorkItemType(listType)
			if err != nil {
				return err
			}
			filter.Type = t
		}

		found, err := core.NewQuery(Registry).Find(filter)
		if err != nil {
			return fmt.Errorf("listing targets: %w", err)
		}

		var resolved []core.TaggedTarget
		var unresolved []core.TaggedTarget
		for _, tt := range found {
			if tt.Err != nil {
				unresolved = append(unresolved, tt)
				continue
			}
			resolved = append(resolved, tt)
		}

		out := cmd.OutOrStdout()
		if len(resolved) == 0 {
			fmt.Fprintln(out, "No tagged targets found.")
		} else {
			tbl := newTable("TARGET", "TYPE", "ID", "LINK", "FROM")
			for _, tt := range resolved {
				if len(tt.Effective) == 0 {
					tbl.Row(tt.Target.String(), "", "", "", "")
					continue
				}
				var ancestors []string
				if !tt.Target.IsMethod() {
					ancestors, _ = Registry.Ancestors(tt.Target.Class)
				}
				tbl.Rows(workItemRows(tt, ancestors, filter.Type, Linker)...)
			}
			fmt.Fprintln(out, tbl.Render())
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d target(s)", len(resolved))))
		}

		warn := severityStyles[core.SeverityWarning]
		for _, tt := range unresolved {
			fmt.Fprintln(out, warn.Render(fmt.Sprintf("skipped %s: %v", tt.Target, tt.Err)))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listGlob, "glob", "", "Only targets whose name matches this pattern")
	listCmd.Flags().StringVar(&listType, "type", "", "Only work items of this type (FR, PR, REQ, TASK, TEST)")
	listCmd.Flags().BoolVar(&listUntagged, "all", false, "Include targets without work items")
	rootCmd.AddCommand(listCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/witag/internal/core"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check declared work items",
	Long: `Check the loaded declarations for problems the tags themselves never
reject: empty work item IDs and inheritance cycles (errors), malformed URLs,
undeclared parent classes and, with check.require_url, missing URLs
(warnings), and tags repeated on one target (info).

Exits with an error when any error-level finding is reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Registry == nil || Checker == nil {
			return fmt.Errorf("checker not initialized")
		}

		findings := Checker.Check(Registry)
		out := cmd.OutOrStdout()
		if len(findings) == 0 {
			fmt.Fprintln(out, "No problems found.")
			return nil
		}

		errCount := 0
		for _, f := range findings {
			if f.Severity == core.SeverityError {
				errCount++
			}
			fmt.Fprintf(out, "%s %s: ", severityStyles[f.Severity].Render(fmt.Sprintf("%-7s", f.Severity)), f.Target)
			if f.Item != nil {
				fmt.Fprintf(out, "%s: ", f.Item)
			}
			fmt.Fprintln(out, f.Message)
		}

		if errCount > 0 {
			return fmt.Errorf("check found %d error(s)", errCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// skipInitAnnotation marks commands that run without loading manifests.
const skipInitAnnotation = "witag/skip-init"

var (
	configFile    string
	manifestFlags []string
	logLevelFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "witag",
	Short: "witag - work item tags for test classes and methods",
	Long: `witag reads the work item tags declared on test classes and methods and
answers questions about them: which requirements, defects, feature requests,
tasks and test specifications a test covers, and which tests cover a given
work item.

Tags on a class are inherited by its subclasses. Tags on a method belong to
that method only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipInitAnnotation] == "true" || Init == nil {
			return nil
		}
		return Init(InitOptions{
			ConfigFile: configFile,
			Manifests:  manifestFlags,
			LogLevel:   logLevelFlag,
		})
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipInitAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "witag %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the configuration file (default: .witagrc in the base path)")
	rootCmd.PersistentFlags().StringArrayVar(&manifestFlags, "manifest", nil, "Manifest file or glob to load; repeatable, overrides the configured manifests")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetdash-dev/budgetdash/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "budgetdash",
		Short:   "Local personal finance dashboard",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newSetCategoryCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newRulesCommand())

	return rootCmd
}

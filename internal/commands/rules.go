package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/budgetdash-dev/budgetdash/internal/session"
)

func newRulesCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the active categorization rules",
		Long: `Rules prints the keyword rules in match order, plus the fallback
category applied when nothing matches. Edit the rules file and re-import
to apply changes to automatic categories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runRules(cmd, absDir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "budget directory")

	return cmd
}

func runRules(cmd *cobra.Command, dir string) error {
	svc, err := session.Open(dir)
	if err != nil {
		return err
	}

	table := svc.Rules()
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEYWORD\tCATEGORY")
	for _, r := range table.Rules() {
		fmt.Fprintf(w, "%s\t%s\n", r.Keyword, r.Category)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFallback: %s\nRules file: %s\n",
		table.Fallback(), svc.Config().Categorizer.RulesFile)
	return nil
}

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/budgetdash-dev/budgetdash/internal/session"
)

func newSetCategoryCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "set-category <transaction-id> <category>",
		Short: "Manually override a transaction's category",
		Long: `Set-category pins a transaction to the given category. A manual
override survives later imports and rule changes until it is set again.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runSetCategory(cmd, absDir, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "budget directory")

	return cmd
}

func runSetCategory(cmd *cobra.Command, dir, id, category string) error {
	svc, err := session.Open(dir)
	if err != nil {
		return err
	}

	if err := svc.SetCategory(id, category); err != nil {
		return err
	}
	if _, err := svc.Save(); err != nil {
		return err
	}

	txn, _ := svc.Get(id)
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s -> %s\n",
		txn.ID, txn.Description, txn.Date.Format("2006-01-02"), category)
	return nil
}

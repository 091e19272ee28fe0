package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetdash-dev/budgetdash/internal/report"
	"github.com/budgetdash-dev/budgetdash/internal/session"
)

func newReportCommand() *cobra.Command {
	var dir string
	var from, to string
	var last string
	var showTxns bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize transactions over a date range",
		Long: `Report aggregates the dataset over a date range: totals per
category, spending breakdown, and the balance over time. The range comes
from --last (30d, 90d, 6m, 1y, all) or explicit --from/--to dates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			rng, err := resolveRange(last, from, to)
			if err != nil {
				return err
			}
			return runReport(cmd, absDir, rng, showTxns)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "budget directory")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&last, "last", "", "preset range: 30d, 90d, 6m, 1y, all")
	cmd.Flags().BoolVar(&showTxns, "transactions", false, "list the matching transactions")

	return cmd
}

func resolveRange(last, from, to string) (report.Range, error) {
	if last != "" {
		if from != "" || to != "" {
			return report.Range{}, fmt.Errorf("--last cannot be combined with --from/--to")
		}
		return report.ParsePreset(last, time.Now())
	}

	var rng report.Range
	var err error
	if from != "" {
		rng.From, err = time.Parse("2006-01-02", from)
		if err != nil {
			return report.Range{}, fmt.Errorf("parsing --from: %w", err)
		}
	}
	if to != "" {
		rng.To, err = time.Parse("2006-01-02", to)
		if err != nil {
			return report.Range{}, fmt.Errorf("parsing --to: %w", err)
		}
	}
	return rng, nil
}

func runReport(cmd *cobra.Command, dir string, rng report.Range, showTxns bool) error {
	svc, err := session.Open(dir)
	if err != nil {
		return err
	}

	sum := svc.Aggregate(rng)
	out := cmd.OutOrStdout()
	currency := svc.Config().Profile.Currency

	fmt.Fprintf(out, "%d transactions in range\n\n", len(sum.Transactions))

	if showTxns {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
		for _, t := range sum.Transactions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Date.Format("2006-01-02"), t.Amount.StringFixed(2), t.Category, t.Description)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	if len(sum.CategoryTotals) > 0 {
		fmt.Fprintln(out, "Totals by category:")
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, c := range sum.CategoryTotals {
			fmt.Fprintf(w, "  %s\t%s %s\t(%d)\n", c.Category, c.Total.StringFixed(2), currency, c.Count)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	if len(sum.Spending) > 0 {
		fmt.Fprintln(out, "Spending:")
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, c := range sum.Spending {
			fmt.Fprintf(w, "  %s\t%s %s\n", c.Category, c.Total.StringFixed(2), currency)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	if len(sum.BalanceSeries) > 0 {
		first := sum.BalanceSeries[0]
		end := sum.BalanceSeries[len(sum.BalanceSeries)-1]
		fmt.Fprintf(out, "Balance: %s %s on %s -> %s %s on %s\n",
			first.Balance.StringFixed(2), currency, first.Date.Format("2006-01-02"),
			end.Balance.StringFixed(2), currency, end.Date.Format("2006-01-02"))
	}

	return nil
}

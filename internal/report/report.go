// Package report computes date-range aggregates over a dataset:
// filtered transaction slices, per-category totals, and the
// balance-over-time series backing the charts.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

// Range is an inclusive date filter. A zero From or To leaves that side
// unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

// All returns the unbounded range.
func All() Range { return Range{} }

// LastDays returns the range covering the last n days up to now.
func LastDays(now time.Time, n int) Range {
	day := now.UTC().Truncate(24 * time.Hour)
	return Range{From: day.AddDate(0, 0, -n), To: day}
}

// ParsePreset maps the UI period presets to a Range.
func ParsePreset(name string, now time.Time) (Range, error) {
	day := now.UTC().Truncate(24 * time.Hour)
	switch name {
	case "30d":
		return LastDays(now, 30), nil
	case "90d":
		return LastDays(now, 90), nil
	case "6m":
		return Range{From: day.AddDate(0, -6, 0), To: day}, nil
	case "1y":
		return Range{From: day.AddDate(-1, 0, 0), To: day}, nil
	case "all", "":
		return All(), nil
	}
	return Range{}, fmt.Errorf("unknown period preset %q", name)
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// CategoryTotal is the signed sum of amounts for one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// BalancePoint is the account balance at the end of one day.
type BalancePoint struct {
	Date    time.Time
	Balance decimal.Decimal
}

// Summary bundles everything the visualization layer renders for one
// date range.
type Summary struct {
	Range          Range
	Transactions   []model.Transaction
	CategoryTotals []CategoryTotal
	Spending       []CategoryTotal
	BalanceSeries  []BalancePoint
}

// Build computes a Summary. txns must be in dataset order (date
// ascending); the balance series is derived over the full dataset so a
// balance anchor outside the range still positions the curve, then
// trimmed to the range. An empty range yields empty aggregates.
func Build(txns []model.Transaction, rng Range) Summary {
	filtered := Filter(txns, rng)
	return Summary{
		Range:          rng,
		Transactions:   filtered,
		CategoryTotals: CategoryTotals(filtered),
		Spending:       Spending(filtered),
		BalanceSeries:  trimSeries(BalanceSeries(txns), rng),
	}
}

// Filter returns the transactions inside the range, preserving order.
func Filter(txns []model.Transaction, rng Range) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if rng.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryTotals sums signed amounts per category. Every category with
// at least one transaction appears, the fallback included. Sorted by
// category name for stable output.
func CategoryTotals(txns []model.Transaction) []CategoryTotal {
	byCat := make(map[string]*CategoryTotal)
	for _, t := range txns {
		ct, ok := byCat[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCat[t.Category] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Spending is the expense breakdown behind the category charts:
// debits only, as positive magnitudes, largest first.
func Spending(txns []model.Transaction) []CategoryTotal {
	var expenses []model.Transaction
	for _, t := range txns {
		if t.Amount.IsNegative() {
			expenses = append(expenses, t)
		}
	}

	totals := CategoryTotals(expenses)
	for i := range totals {
		totals[i].Total = totals[i].Total.Abs()
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals
}

// BalanceSeries derives the end-of-day balance for every day with
// activity. Balances reported by the source files are authoritative:
// the series resynchronizes on every transaction carrying one. Without
// any reported balance the series is the cumulative sum of amounts; the
// earliest reported balance, when present, anchors the days before it.
func BalanceSeries(txns []model.Transaction) []BalancePoint {
	if len(txns) == 0 {
		return nil
	}

	running := startingBalance(txns)
	var series []BalancePoint
	for i, t := range txns {
		if t.BalanceAfter.Valid {
			running = t.BalanceAfter.Decimal
		} else {
			running = running.Add(t.Amount)
		}
		last := i+1 == len(txns) || !sameDay(txns[i+1].Date, t.Date)
		if last {
			series = append(series, BalancePoint{Date: t.Date, Balance: running})
		}
	}
	return series
}

// startingBalance back-computes the balance before the first
// transaction from the earliest reported balance, or zero when no file
// reported one.
func startingBalance(txns []model.Transaction) decimal.Decimal {
	for i, t := range txns {
		if !t.BalanceAfter.Valid {
			continue
		}
		start := t.BalanceAfter.Decimal
		for j := i; j >= 0; j-- {
			start = start.Sub(txns[j].Amount)
		}
		return start
	}
	return decimal.Zero
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func trimSeries(series []BalancePoint, rng Range) []BalancePoint {
	var out []BalancePoint
	for _, p := range series {
		if rng.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

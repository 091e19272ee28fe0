// Package dataset holds the merged, ordered transaction collection for
// a session and the merge rules that keep it free of duplicates.
package dataset

import (
	"fmt"
	"sort"

	"github.com/budgetdash-dev/budgetdash/internal/model"
	"github.com/budgetdash-dev/budgetdash/internal/txid"
)

// Categorizer assigns a category to a transaction description. It must
// be pure: merge re-runs it over auto-categorized transactions.
type Categorizer interface {
	Categorize(description string) string
}

// Dataset is an ordered collection of transactions keyed by ID.
// Order is chronological by date; transactions on the same day keep
// their ingestion order. The balance series derivation relies on this.
type Dataset struct {
	txns  []model.Transaction
	index map[string]int
}

// New returns an empty Dataset.
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// FromTransactions builds a Dataset from already-identified
// transactions (a loaded snapshot). Duplicate IDs are an error.
func FromTransactions(txns []model.Transaction) (*Dataset, error) {
	d := New()
	for _, t := range txns {
		if _, dup := d.index[t.ID]; dup {
			return nil, fmt.Errorf("duplicate transaction id %s", t.ID)
		}
		d.index[t.ID] = len(d.txns)
		d.txns = append(d.txns, t)
	}
	d.reorder()
	return d, nil
}

// Len returns the number of transactions.
func (d *Dataset) Len() int {
	return len(d.txns)
}

// All returns the transactions in dataset order. The slice is a copy;
// the transactions are values.
func (d *Dataset) All() []model.Transaction {
	return append([]model.Transaction(nil), d.txns...)
}

// Get returns the transaction with the given ID.
func (d *Dataset) Get(id string) (model.Transaction, bool) {
	i, ok := d.index[id]
	if !ok {
		return model.Transaction{}, false
	}
	return d.txns[i], true
}

// MergeStats summarizes one statement merge.
type MergeStats struct {
	Added     int // new transactions inserted
	Refreshed int // existing auto-categorized transactions re-categorized
	Kept      int // existing manually-categorized transactions left untouched
}

// Merge folds a parsed statement into the dataset.
//
// Identity is derived per transaction; a transaction already present is
// never duplicated and its factual fields (date, amount, account,
// description) are never rewritten. Manual categories always survive:
// only auto-categorized transactions are re-run through the
// categorizer. Nothing is ever deleted by a merge.
func (d *Dataset) Merge(stmt model.Statement, cat Categorizer) MergeStats {
	var stats MergeStats
	var lastID string

	for _, raw := range stmt.Transactions {
		id := txid.Derive(stmt.AccountID, raw.Date, raw.Amount, raw.Description)
		lastID = id

		if i, ok := d.index[id]; ok {
			if d.txns[i].Source == model.SourceManual {
				stats.Kept++
				continue
			}
			d.txns[i].Category = cat.Categorize(d.txns[i].Description)
			stats.Refreshed++
			continue
		}

		d.index[id] = len(d.txns)
		d.txns = append(d.txns, model.Transaction{
			ID:           id,
			AccountID:    stmt.AccountID,
			Date:         raw.Date,
			Amount:       raw.Amount,
			Description:  raw.Description,
			Category:     cat.Categorize(raw.Description),
			Source:       model.SourceAuto,
			BalanceAfter: raw.BalanceAfter,
		})
		stats.Added++
	}

	// A statement-level ledger balance is the balance after the file's
	// last transaction; anchor it there unless the file already carried
	// per-transaction balances.
	if stmt.LedgerBalance.Valid && lastID != "" {
		if i, ok := d.index[lastID]; ok && !d.txns[i].BalanceAfter.Valid {
			d.txns[i].BalanceAfter = stmt.LedgerBalance
		}
	}

	d.reorder()
	return stats
}

// SetCategory sets a manual category override on a transaction.
func (d *Dataset) SetCategory(id, category string) error {
	i, ok := d.index[id]
	if !ok {
		return fmt.Errorf("unknown transaction id %s", id)
	}
	d.txns[i].Category = category
	d.txns[i].Source = model.SourceManual
	return nil
}

// reorder restores chronological order, keeping ingestion order for
// same-day transactions, and rebuilds the ID index.
func (d *Dataset) reorder() {
	sort.SliceStable(d.txns, func(i, j int) bool {
		return d.txns[i].Date.Before(d.txns[j].Date)
	})
	for i, t := range d.txns {
		d.index[t.ID] = i
	}
}

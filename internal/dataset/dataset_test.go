package dataset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetdash-dev/budgetdash/internal/model"
	"github.com/budgetdash-dev/budgetdash/internal/rules"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func raw(day int, amount, desc string) model.RawTransaction {
	return model.RawTransaction{Date: date(2024, 1, day), Amount: dec(amount), Description: desc}
}

func stmt(account string, txns ...model.RawTransaction) model.Statement {
	return model.Statement{AccountID: account, Transactions: txns}
}

func TestMerge_InsertAndCategorize(t *testing.T) {
	d := New()
	stats := d.Merge(stmt("A", raw(1, "-50.00", "GROCERY MART"), raw(2, "2000.00", "PAYROLL")), rules.Default())

	assert.Equal(t, MergeStats{Added: 2}, stats)
	require.Equal(t, 2, d.Len())

	all := d.All()
	assert.Equal(t, "Groceries", all[0].Category)
	assert.Equal(t, model.SourceAuto, all[0].Source)
	assert.Equal(t, "Income", all[1].Category)
	assert.Equal(t, "A", all[0].AccountID)
}

func TestMerge_Idempotent(t *testing.T) {
	d := New()
	s := stmt("A", raw(1, "-50.00", "GROCERY MART"), raw(2, "2000.00", "PAYROLL"))

	d.Merge(s, rules.Default())
	stats := d.Merge(s, rules.Default())

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 0, stats.Added)
	assert.Equal(t, 2, stats.Refreshed)
}

func TestMerge_ManualCategorySurvives(t *testing.T) {
	d := New()
	s := stmt("A", raw(1, "-50.00", "GROCERY MART"))
	d.Merge(s, rules.Default())

	id := d.All()[0].ID
	require.NoError(t, d.SetCategory(id, "Shopping"))

	stats := d.Merge(s, rules.Default())
	assert.Equal(t, MergeStats{Kept: 1}, stats)

	got, ok := d.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Shopping", got.Category)
	assert.Equal(t, model.SourceManual, got.Source)
}

func TestMerge_OverlappingStatements(t *testing.T) {
	d := New()
	d.Merge(stmt("A", raw(1, "-50.00", "GROCERY MART"), raw(2, "2000.00", "PAYROLL")), rules.Default())
	d.Merge(stmt("A", raw(2, "2000.00", "PAYROLL"), raw(3, "-12.40", "STARBUCKS #123")), rules.Default())

	assert.Equal(t, 3, d.Len())
}

func TestMerge_ChronologicalOrderWithStableTies(t *testing.T) {
	d := New()
	d.Merge(stmt("A",
		raw(5, "-10.00", "FIRST ON THE 5TH"),
		raw(5, "-20.00", "SECOND ON THE 5TH"),
		raw(2, "-30.00", "EARLIER DAY"),
	), rules.Default())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, "EARLIER DAY", all[0].Description)
	assert.Equal(t, "FIRST ON THE 5TH", all[1].Description)
	assert.Equal(t, "SECOND ON THE 5TH", all[2].Description)
}

func TestMerge_SmallerReuploadDeletesNothing(t *testing.T) {
	d := New()
	d.Merge(stmt("A", raw(1, "-50.00", "GROCERY MART"), raw(2, "2000.00", "PAYROLL")), rules.Default())
	d.Merge(stmt("A", raw(2, "2000.00", "PAYROLL")), rules.Default())

	assert.Equal(t, 2, d.Len())
}

func TestMerge_LedgerBalanceAnchorsLastTransaction(t *testing.T) {
	d := New()
	s := stmt("A", raw(1, "-50.00", "GROCERY MART"), raw(2, "2000.00", "PAYROLL"))
	s.LedgerBalance = decimal.NullDecimal{Decimal: dec("1950.00"), Valid: true}
	d.Merge(s, rules.Default())

	all := d.All()
	assert.False(t, all[0].BalanceAfter.Valid)
	require.True(t, all[1].BalanceAfter.Valid)
	assert.Equal(t, "1950.00", all[1].BalanceAfter.Decimal.StringFixed(2))
}

func TestMerge_RefreshPicksUpNewRules(t *testing.T) {
	d := New()
	s := stmt("A", raw(1, "-9.99", "ZZZCORP SUBSCRIPTION"))

	d.Merge(s, rules.Default())
	assert.Equal(t, "Other", d.All()[0].Category)

	richer := rules.NewTable([]rules.Rule{{Keyword: "zzzcorp", Category: "Entertainment"}}, "")
	d.Merge(s, richer)
	assert.Equal(t, "Entertainment", d.All()[0].Category)
}

func TestSetCategory_UnknownID(t *testing.T) {
	d := New()
	assert.Error(t, d.SetCategory("deadbeefdeadbeef", "Shopping"))
}

func TestFromTransactions_DuplicateID(t *testing.T) {
	txn := model.Transaction{ID: "deadbeefdeadbeef", Date: date(2024, 1, 1)}
	_, err := FromTransactions([]model.Transaction{txn, txn})
	assert.Error(t, err)
}

func TestFromTransactions_Reorders(t *testing.T) {
	a := model.Transaction{ID: "aaaaaaaaaaaaaaaa", Date: date(2024, 1, 5)}
	b := model.Transaction{ID: "bbbbbbbbbbbbbbbb", Date: date(2024, 1, 2)}
	d, err := FromTransactions([]model.Transaction{a, b})
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbbbbbbbbbb", d.All()[0].ID)
}

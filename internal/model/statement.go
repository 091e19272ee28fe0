package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a single transaction as read from a bank export,
// before identity derivation and categorization.
type RawTransaction struct {
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
	BalanceAfter decimal.NullDecimal
}

// Statement is the result of parsing one bank export file.
type Statement struct {
	AccountID     string
	LedgerBalance decimal.NullDecimal // end balance reported by the file
	Transactions  []RawTransaction    // in file order
	Rejected      []error             // per-transaction validation failures
}

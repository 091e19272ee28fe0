package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySource tracks where a transaction's category came from.
type CategorySource string

const (
	// SourceAuto marks a category assigned by the rule engine.
	SourceAuto CategorySource = "auto"
	// SourceManual marks a category set by the user. Manual categories
	// always survive a merge.
	SourceManual CategorySource = "manual"
)

// Transaction is one row of the merged dataset.
type Transaction struct {
	ID           string // content hash of (account, date, amount, description)
	AccountID    string
	Date         time.Time       // posted date, midnight UTC
	Amount       decimal.Decimal // negative = debit, positive = credit
	Description  string
	Category     string
	Source       CategorySource
	BalanceAfter decimal.NullDecimal // running balance reported by the file, if any
}

// Package txid derives stable transaction identities.
//
// The ID is a pure function of (account, posted date, amount, raw
// description), so re-ingesting an overlapping statement resolves each
// transaction to the same ID and merges instead of duplicating.
package txid

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Length is the number of hex characters in a transaction ID.
const Length = 16

const dateFormat = "2006-01-02"

// Derive returns the transaction ID for the given identity fields.
// The amount is canonicalized to two decimal places and the description
// is used verbatim, so two files reporting the same posting produce the
// same ID regardless of amount formatting.
func Derive(accountID string, date time.Time, amount decimal.Decimal, description string) string {
	h := sha256.New()
	h.Write([]byte(accountID))
	h.Write([]byte{'|'})
	h.Write([]byte(date.Format(dateFormat)))
	h.Write([]byte{'|'})
	h.Write([]byte(amount.StringFixed(2)))
	h.Write([]byte{'|'})
	h.Write([]byte(description))
	return hex.EncodeToString(h.Sum(nil))[:Length]
}

// Valid reports whether s has the shape of a derived transaction ID.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f')
	}) < 0
}

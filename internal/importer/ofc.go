package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

// OFCParser parses OFC exports, the Microsoft Money era predecessor of
// OFX still emitted by some European banks. The layout is close enough
// to OFX 1.x that the same tag scanner applies; the differences are the
// <OFC> root, the bare <LEDGER> end-balance leaf, and amounts that may
// use a comma decimal separator.
type OFCParser struct{}

// Format returns the parser name.
func (p *OFCParser) Format() string { return "ofc" }

// Parse reads an OFC document and returns its statement.
func (p *OFCParser) Parse(r io.Reader) (model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Statement{}, fmt.Errorf("reading ofc content: %w", err)
	}
	text := string(data)

	idx := strings.Index(text, "<OFC>")
	if idx < 0 {
		idx = strings.Index(text, "<ofc>")
	}
	if idx < 0 {
		return model.Statement{}, errors.New("missing <OFC> root")
	}

	var stmt model.Statement
	var cur *txnFields

	// Some OFC writers never close transaction blocks, so a new block
	// flushes the previous one and no open/close accounting is done.
	for _, t := range scanTags(text[idx:]) {
		switch t.name {
		case "STMTTRN", "TRN":
			if cur != nil {
				cur.finalize(&stmt)
			}
			cur = &txnFields{}
		case "/STMTTRN", "/TRN":
			if cur != nil {
				cur.finalize(&stmt)
				cur = nil
			}
		case "DTPOSTED":
			if cur != nil {
				cur.date = t.value
			}
		case "TRNAMT":
			if cur != nil {
				cur.amount = t.value
			}
		case "NAME", "PAYEE":
			if cur != nil {
				cur.name = t.value
			}
		case "MEMO":
			if cur != nil {
				cur.memo = t.value
			}
		case "ACCTID":
			if stmt.AccountID == "" {
				stmt.AccountID = t.value
			}
		case "LEDGER":
			if bal, err := parseBankAmount(t.value); err == nil {
				stmt.LedgerBalance = decimal.NullDecimal{Decimal: bal, Valid: true}
			}
		}
	}

	if cur != nil {
		cur.finalize(&stmt)
	}
	return stmt, nil
}

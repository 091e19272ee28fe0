package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

// OFXParser parses OFX bank statement exports. Both historical
// sub-dialects are accepted: the SGML flavor (OFX 1.x, colon-separated
// headers, unclosed leaf tags) and the XML flavor (OFX 2.x). A parse
// failure under the detected dialect falls back to the other before the
// file is reported as unparseable.
type OFXParser struct{}

// Format returns the parser name.
func (p *OFXParser) Format() string { return "ofx" }

// Parse reads an OFX document and returns its statement. The account ID
// is taken from the first ACCTID aggregate; callers fall back to a
// file-name-derived ID when it is absent. The statement-level ledger
// balance is captured when present; individual transactions never carry
// a running balance in OFX.
func (p *OFXParser) Parse(r io.Reader) (model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Statement{}, fmt.Errorf("reading ofx content: %w", err)
	}
	text := string(data)

	if looksLikeXML(text) {
		stmt, xerr := parseOFXXML(text)
		if xerr == nil {
			return stmt, nil
		}
		stmt, serr := parseOFXSGML(text)
		if serr == nil {
			return stmt, nil
		}
		return model.Statement{}, fmt.Errorf("xml dialect: %w (sgml fallback: %v)", xerr, serr)
	}

	stmt, serr := parseOFXSGML(text)
	if serr == nil {
		return stmt, nil
	}
	stmt, xerr := parseOFXXML(text)
	if xerr == nil {
		return stmt, nil
	}
	return model.Statement{}, fmt.Errorf("sgml dialect: %w (xml fallback: %v)", serr, xerr)
}

func looksLikeXML(text string) bool {
	head := strings.TrimSpace(text)
	return strings.HasPrefix(head, "<?xml")
}

// txnFields accumulates the leaf values of one transaction block before
// validation.
type txnFields struct {
	date    string
	amount  string
	name    string
	memo    string
	balance string
}

// finalize validates the accumulated fields and appends either a
// transaction or a rejection to stmt. Invalid dates and amounts reject
// the single transaction, never the whole file.
func (f *txnFields) finalize(stmt *model.Statement) {
	date, err := parseBankDate(f.date)
	if err != nil {
		stmt.Rejected = append(stmt.Rejected, &ValidationError{Field: "date", Value: f.date, Err: err})
		return
	}

	amount, err := parseBankAmount(f.amount)
	if err != nil {
		stmt.Rejected = append(stmt.Rejected, &ValidationError{Field: "amount", Value: f.amount, Err: err})
		return
	}

	desc := f.memo
	if desc == "" {
		desc = f.name
	}

	txn := model.RawTransaction{Date: date, Amount: amount, Description: desc}
	if f.balance != "" {
		if bal, err := parseBankAmount(f.balance); err == nil {
			txn.BalanceAfter = decimal.NullDecimal{Decimal: bal, Valid: true}
		}
	}
	stmt.Transactions = append(stmt.Transactions, txn)
}

// parseBankDate parses the YYYYMMDD prefix of an OFX/OFC timestamp.
// Trailing time-of-day and timezone qualifiers are ignored.
func parseBankDate(v string) (time.Time, error) {
	if len(v) < 8 {
		return time.Time{}, errors.New("too short for YYYYMMDD")
	}
	d, err := time.Parse("20060102", v[:8])
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

// parseBankAmount parses a signed decimal, tolerating the comma decimal
// separator found in legacy European exports.
func parseBankAmount(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Decimal{}, errors.New("missing amount")
	}
	if strings.Contains(v, ",") && !strings.Contains(v, ".") {
		v = strings.ReplaceAll(v, ",", ".")
	}
	v = strings.ReplaceAll(v, " ", "")
	return decimal.NewFromString(v)
}

// parseOFXSGML handles the OFX 1.x dialect via the tag scanner.
func parseOFXSGML(text string) (model.Statement, error) {
	idx := strings.Index(text, "<OFX>")
	if idx < 0 {
		idx = strings.Index(text, "<ofx>")
	}
	if idx < 0 {
		return model.Statement{}, errors.New("missing <OFX> root")
	}

	var stmt model.Statement
	var cur *txnFields
	opens, closes := 0, 0
	inLedgerBal := false

	for _, t := range scanTags(text[idx:]) {
		switch t.name {
		case "STMTTRN":
			if cur != nil {
				cur.finalize(&stmt)
			}
			cur = &txnFields{}
			opens++
		case "/STMTTRN":
			if cur != nil {
				cur.finalize(&stmt)
				cur = nil
			}
			closes++
		case "DTPOSTED":
			if cur != nil {
				cur.date = t.value
			}
		case "TRNAMT":
			if cur != nil {
				cur.amount = t.value
			}
		case "NAME":
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
		case "LEDGERBAL":
			inLedgerBal = true
		case "/LEDGERBAL", "AVAILBAL":
			inLedgerBal = false
		case "BALAMT":
			if inLedgerBal {
				if bal, err := parseBankAmount(t.value); err == nil {
					stmt.LedgerBalance = decimal.NullDecimal{Decimal: bal, Valid: true}
				}
			}
		}
	}

	if opens != closes {
		return model.Statement{}, fmt.Errorf("truncated transaction list: %d open, %d closed", opens, closes)
	}
	return stmt, nil
}

// parseOFXXML handles the OFX 2.x dialect with a streaming XML decoder.
func parseOFXXML(text string) (model.Statement, error) {
	d := xml.NewDecoder(strings.NewReader(text))

	var stmt model.Statement
	var cur *txnFields
	var elem string
	sawRoot := false
	inLedgerBal := false

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Statement{}, fmt.Errorf("malformed xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elem = strings.ToUpper(t.Name.Local)
			switch elem {
			case "OFX":
				sawRoot = true
			case "STMTTRN":
				cur = &txnFields{}
			case "LEDGERBAL":
				inLedgerBal = true
			}
		case xml.EndElement:
			switch strings.ToUpper(t.Name.Local) {
			case "STMTTRN":
				if cur != nil {
					cur.finalize(&stmt)
					cur = nil
				}
			case "LEDGERBAL":
				inLedgerBal = false
			}
			elem = ""
		case xml.CharData:
			v := strings.TrimSpace(string(t))
			if v == "" {
				continue
			}
			switch elem {
			case "DTPOSTED":
				if cur != nil {
					cur.date = v
				}
			case "TRNAMT":
				if cur != nil {
					cur.amount = v
				}
			case "NAME":
				if cur != nil {
					cur.name = v
				}
			case "MEMO":
				if cur != nil {
					cur.memo = v
				}
			case "ACCTID":
				if stmt.AccountID == "" {
					stmt.AccountID = v
				}
			case "BALAMT":
				if inLedgerBal {
					if bal, err := parseBankAmount(v); err == nil {
						stmt.LedgerBalance = decimal.NullDecimal{Decimal: bal, Valid: true}
					}
				}
			}
		}
	}

	if !sawRoot {
		return model.Statement{}, errors.New("missing <OFX> root")
	}
	return stmt, nil
}

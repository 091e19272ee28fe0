// Package snapshot persists a dataset as a columnar CSV file so manual
// categorization work survives across sessions.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

// SchemaVersion is the current snapshot format version, written into
// every row. Bump it when a column changes meaning.
const SchemaVersion = 1

// Header is the CSV header for a snapshot file. The column names and
// order are the format contract.
const Header = "schema_version,id,account_id,date,amount,description,category,category_source,balance_after"

const (
	numFields  = 9
	dateFormat = "2006-01-02"
	colVersion = 0
	colID      = 1
	colAcctID  = 2
	colDate    = 3
	colAmount  = 4
	colDesc    = 5
	colCat     = 6
	colSource  = 7
	colBalance = 8
)

// Error reports an unreadable or incompatible snapshot. Loads fail as a
// whole: no partially-restored dataset is ever produced.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("snapshot: %s: %v", e.Reason, e.Err)
	}
	return "snapshot: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Write writes all transactions (including header) to w.
func Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Read reads a full snapshot from r. The header must match Header
// exactly and every row must carry the supported schema version;
// anything else is an *Error, never a silently dropped field.
func Read(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)

	// Column names are checked before arity so a foreign file reports
	// its columns, not a bare field-count mismatch.
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &Error{Reason: "empty snapshot"}
	}
	if err != nil {
		return nil, &Error{Reason: "reading snapshot CSV", Err: err}
	}
	if got := strings.Join(header, ","); got != Header {
		return nil, &Error{Reason: fmt.Sprintf("unexpected columns %q", got)}
	}

	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &Error{Reason: "reading snapshot CSV", Err: err}
	}

	var txns []model.Transaction
	for i, rec := range records {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, &Error{Reason: fmt.Sprintf("row %d", i+2), Err: err}
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colVersion] = strconv.Itoa(SchemaVersion)
	row[colID] = txn.ID
	row[colAcctID] = txn.AccountID
	row[colDate] = txn.Date.Format(dateFormat)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colDesc] = txn.Description
	row[colCat] = txn.Category
	row[colSource] = string(txn.Source)

	if txn.BalanceAfter.Valid {
		row[colBalance] = txn.BalanceAfter.Decimal.StringFixed(2)
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. An empty
// balance_after cell round-trips to an unset balance.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	version, err := strconv.Atoi(record[colVersion])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing schema_version %q: %w", record[colVersion], err)
	}
	if version != SchemaVersion {
		return model.Transaction{}, fmt.Errorf("unsupported schema version %d", version)
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	source := model.CategorySource(record[colSource])
	if source != model.SourceAuto && source != model.SourceManual {
		return model.Transaction{}, fmt.Errorf("unknown category_source %q", record[colSource])
	}

	var balance decimal.NullDecimal
	if record[colBalance] != "" {
		b, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing balance_after %q: %w", record[colBalance], err)
		}
		balance = decimal.NullDecimal{Decimal: b, Valid: true}
	}

	return model.Transaction{
		ID:           record[colID],
		AccountID:    record[colAcctID],
		Date:         date.UTC(),
		Amount:       amount,
		Description:  record[colDesc],
		Category:     record[colCat],
		Source:       source,
		BalanceAfter: balance,
	}, nil
}

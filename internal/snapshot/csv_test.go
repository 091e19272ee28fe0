package snapshot

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleTxns() []model.Transaction {
	return []model.Transaction{
		{
			ID:          "a1b2c3d4e5f60708",
			AccountID:   "CHK-001",
			Date:        date(2024, 1, 1),
			Amount:      dec("-50.00"),
			Description: "GROCERY MART",
			Category:    "Groceries",
			Source:      model.SourceAuto,
		},
		{
			ID:           "1122334455667788",
			AccountID:    "CHK-001",
			Date:         date(2024, 1, 2),
			Amount:       dec("2000.00"),
			Description:  "PAYROLL, JANUARY \"BONUS\"",
			Category:     "Shopping",
			Source:       model.SourceManual,
			BalanceAfter: decimal.NullDecimal{Decimal: dec("1950.00"), Valid: true},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	txns := sampleTxns()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), "schema_version,"))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range txns {
		assert.Equal(t, txns[i].ID, got[i].ID)
		assert.Equal(t, txns[i].AccountID, got[i].AccountID)
		assert.True(t, txns[i].Date.Equal(got[i].Date))
		assert.True(t, txns[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.Equal(t, txns[i].Description, got[i].Description)
		assert.Equal(t, txns[i].Category, got[i].Category)
		assert.Equal(t, txns[i].Source, got[i].Source)
		assert.Equal(t, txns[i].BalanceAfter.Valid, got[i].BalanceAfter.Valid)
		if txns[i].BalanceAfter.Valid {
			assert.True(t, txns[i].BalanceAfter.Decimal.Equal(got[i].BalanceAfter.Decimal))
		}
	}
}

func TestRead_EmptyDatasetRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_WrongHeader(t *testing.T) {
	// Too few columns.
	_, err := Read(strings.NewReader("id,amount\nx,1\n"))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "unexpected columns")

	// Right arity, wrong names.
	renamed := strings.Replace(Header, "amount", "value", 1)
	_, err = Read(strings.NewReader(renamed + "\n"))
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "unexpected columns")
}

func TestRead_ShortRow(t *testing.T) {
	_, err := Read(strings.NewReader(Header + "\n1,a1b2c3d4e5f60708\n"))
	var serr *Error
	require.ErrorAs(t, err, &serr)
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	var serr *Error
	require.ErrorAs(t, err, &serr)
}

func TestRead_UnsupportedVersion(t *testing.T) {
	row := "99,a1b2c3d4e5f60708,CHK-001,2024-01-01,-50.00,GROCERY MART,Groceries,auto,"
	_, err := Read(strings.NewReader(Header + "\n" + row + "\n"))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "unsupported schema version")
}

func TestRead_BadSource(t *testing.T) {
	row := "1,a1b2c3d4e5f60708,CHK-001,2024-01-01,-50.00,GROCERY MART,Groceries,guessed,"
	_, err := Read(strings.NewReader(Header + "\n" + row + "\n"))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "category_source")
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "transactions.csv")

	require.NoError(t, SaveFile(path, sampleTxns()))

	txns, found, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, txns, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	txns, found, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, txns)
}

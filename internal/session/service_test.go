package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetdash-dev/budgetdash/internal/auditlog"
	"github.com/budgetdash-dev/budgetdash/internal/config"
	"github.com/budgetdash-dev/budgetdash/internal/importer"
	"github.com/budgetdash-dev/budgetdash/internal/model"
	"github.com/budgetdash-dev/budgetdash/internal/report"
)

func newBudgetDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default("test")
	cfg.Git.AutoCommit = false
	require.NoError(t, config.Save(filepath.Join(root, config.FileName), cfg))
	return root
}

func fixture(t *testing.T, name string) importer.File {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("../../testdata", name))
	require.NoError(t, err)
	return importer.File{Name: name, Data: data}
}

func TestOpen_EmptyDirectoryStartsEmpty(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Len())
}

func TestRegistryCarriesBuiltinFormats(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"ofx", "ofc"}, svc.Registry().Formats())
}

func TestOpen_NotABudgetDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a budget directory")
}

func TestIngest_CountMatchesTransactionBlocks(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)

	res, err := svc.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 3, res.Files[0].Stats.Added)
	assert.Equal(t, 3, svc.Len())
}

func TestIngest_Idempotent(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)

	_, err = svc.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)
	_, err = svc.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)

	assert.Equal(t, 3, svc.Len())
}

func TestIngest_MalformedFileIsIsolated(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)

	res, err := svc.Ingest([]importer.File{
		fixture(t, "checking.ofx"),
		{Name: "broken.ofx", Data: []byte("not a statement")},
		fixture(t, "releve.ofc"),
	})
	require.NoError(t, err)

	assert.Len(t, res.Files, 2)
	require.Len(t, res.ParseErrors, 1)
	assert.Equal(t, "broken.ofx", res.ParseErrors[0].File)
	assert.Equal(t, 6, svc.Len())
}

func TestManualOverrideSurvivesSaveAndReingest(t *testing.T) {
	root := newBudgetDir(t)
	svc, err := Open(root)
	require.NoError(t, err)

	_, err = svc.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)

	id := svc.Transactions()[0].ID
	require.NoError(t, svc.SetCategory(id, "Shopping"))
	_, err = svc.Save()
	require.NoError(t, err)

	// New session: snapshot restores the override, re-ingest keeps it.
	svc2, err := Open(root)
	require.NoError(t, err)
	got, ok := svc2.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Shopping", got.Category)
	assert.Equal(t, model.SourceManual, got.Source)

	_, err = svc2.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)
	got, _ = svc2.Get(id)
	assert.Equal(t, "Shopping", got.Category)
	assert.Equal(t, model.SourceManual, got.Source)
}

func TestSetCategory_UnknownID(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)
	assert.Error(t, svc.SetCategory("deadbeefdeadbeef", "Shopping"))
}

func TestSaveLoad_RoundTripsDataset(t *testing.T) {
	root := newBudgetDir(t)
	svc, err := Open(root)
	require.NoError(t, err)

	_, err = svc.Ingest([]importer.File{fixture(t, "checking.ofx"), fixture(t, "releve.ofc")})
	require.NoError(t, err)
	before := svc.Transactions()

	_, err = svc.Save()
	require.NoError(t, err)

	svc2, err := Open(root)
	require.NoError(t, err)
	after := svc2.Transactions()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.True(t, before[i].Date.Equal(after[i].Date))
		assert.True(t, before[i].Amount.Equal(after[i].Amount))
		assert.Equal(t, before[i].Category, after[i].Category)
		assert.Equal(t, before[i].Source, after[i].Source)
		assert.Equal(t, before[i].BalanceAfter.Valid, after[i].BalanceAfter.Valid)
	}
}

func TestAggregate(t *testing.T) {
	svc, err := Open(newBudgetDir(t))
	require.NoError(t, err)

	_, err = svc.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)

	summary := svc.Aggregate(report.All())
	assert.Len(t, summary.Transactions, 3)
	assert.NotEmpty(t, summary.CategoryTotals)
	assert.NotEmpty(t, summary.BalanceSeries)
}

func TestIngest_WritesAuditTrail(t *testing.T) {
	root := newBudgetDir(t)
	svc, err := Open(root)
	require.NoError(t, err)

	_, err = svc.Ingest([]importer.File{fixture(t, "checking.ofx")})
	require.NoError(t, err)
	id := svc.Transactions()[0].ID
	require.NoError(t, svc.SetCategory(id, "Shopping"))

	entries, err := auditlog.Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, auditlog.ActionIngest, entries[0].Action)
	assert.Equal(t, "checking.ofx", entries[0].File)
	assert.Equal(t, auditlog.ActionSetCategory, entries[1].Action)
	assert.Equal(t, id, entries[1].TxnID)
}

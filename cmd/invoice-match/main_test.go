package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poledger/invoice-match/internal/history"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	pdfFolder := filepath.Join(dir, "invoices")
	require.NoError(t, os.Mkdir(pdfFolder, 0o755))

	poCSV := filepath.Join(dir, "po.csv")
	require.NoError(t, os.WriteFile(poCSV, []byte("InvoiceNumber\nA100\n"), 0o644))

	out := filepath.Join(dir, "results.csv")
	histDB := filepath.Join(dir, "history.db")

	err := run(context.Background(), options{
		pdfFolder: pdfFolder,
		poCSV:     poCSV,
		output:    out,
		historyDB: histDB,
	}, discardLogger())
	require.NoError(t, err)

	// Empty folder: header-only results file.
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "invoice_number,vendor,date,total,file,matched\n", string(data))

	// The history store was written and closed; a fresh open must see the run.
	store, err := history.Open(histDB, discardLogger())
	require.NoError(t, err)
	defer store.Close()
	n, err := store.RunCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_LedgerFailureReturnsError(t *testing.T) {
	dir := t.TempDir()

	err := run(context.Background(), options{
		pdfFolder: dir,
		poCSV:     filepath.Join(dir, "no-such-po.csv"),
		output:    filepath.Join(dir, "results.csv"),
	}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load purchase-order ledger")
}

package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poledger/invoice-match/internal/common"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "po.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Run("loads invoice number column", func(t *testing.T) {
		path := writeCSV(t, "InvoiceNumber,Vendor\nA100,ACME\nB200,Initech\n")
		led, err := LoadCSV(path)
		require.NoError(t, err)

		assert.Equal(t, 2, led.Len())
		assert.Equal(t, []string{"A100", "B200"}, led.Numbers())
		assert.True(t, led.Contains("A100"))
		assert.False(t, led.Contains("a100"))
	})

	t.Run("column may appear anywhere in the header", func(t *testing.T) {
		path := writeCSV(t, "Vendor,InvoiceNumber\nACME,A100\n")
		led, err := LoadCSV(path)
		require.NoError(t, err)
		assert.True(t, led.Contains("A100"))
	})

	t.Run("header name is case sensitive", func(t *testing.T) {
		path := writeCSV(t, "invoicenumber\nA100\n")
		_, err := LoadCSV(path)
		require.Error(t, err)

		var appErr *common.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.CodeLedgerLoad, appErr.Code)
	})

	t.Run("missing column", func(t *testing.T) {
		path := writeCSV(t, "PONumber,Vendor\nP1,ACME\n")
		_, err := LoadCSV(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrLedgerLoad))
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, "")
		_, err := LoadCSV(path)
		require.Error(t, err)
	})

	t.Run("header only ledger is valid and empty", func(t *testing.T) {
		path := writeCSV(t, "InvoiceNumber\n")
		led, err := LoadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, 0, led.Len())
		assert.False(t, led.Contains("A100"))
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		path := writeCSV(t, "Vendor,InvoiceNumber\nACME,A100\nonly-vendor\n")
		led, err := LoadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"A100"}, led.Numbers())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)

		var appErr *common.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.CodeLedgerLoad, appErr.Code)
	})
}

func TestLedger_ContainsFold(t *testing.T) {
	led := New([]string{" A123 ", "B9"})
	assert.True(t, led.ContainsFold("a123"))
	assert.True(t, led.ContainsFold("B9 "))
	assert.False(t, led.ContainsFold("C1"))
}
